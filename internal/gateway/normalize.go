package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// DefaultSuccessTemplate renders the text returned when a tool produced no value.
const DefaultSuccessTemplate = "Successfully executed {{ .Tool }}"

// successData is what the success template is rendered with.
type successData struct {
	Tool string
	Time time.Time
}

// Normalizer turns raw adapter return values into the single text payload
// carried by a tool result.
type Normalizer struct {
	success *template.Template
}

var defaultNormalizer = MustNormalizer(DefaultSuccessTemplate)

// NewNormalizer parses successTemplate with the sprig function map. An empty
// template selects DefaultSuccessTemplate.
func NewNormalizer(successTemplate string) (*Normalizer, error) {
	if strings.TrimSpace(successTemplate) == "" {
		successTemplate = DefaultSuccessTemplate
	}
	tmpl, err := template.New("success").Funcs(sprig.TxtFuncMap()).Parse(successTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid success template: %w", err)
	}
	return &Normalizer{success: tmpl}, nil
}

// MustNormalizer is like NewNormalizer but panics on a bad template.
func MustNormalizer(successTemplate string) *Normalizer {
	n, err := NewNormalizer(successTemplate)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize renders raw with the default normalizer.
func Normalize(tool string, raw any) string {
	return defaultNormalizer.Normalize(tool, raw)
}

// Normalize renders raw as text:
//   - nil: the success placeholder naming the tool
//   - strings, numbers, booleans: their plain textual form; byte slices
//     are text payloads
//   - maps, slices and arrays: two-space indented JSON
//   - pointers: the value they point to
//   - anything else: its default formatting
func (n *Normalizer) Normalize(tool string, raw any) string {
	if raw == nil {
		return n.successText(tool)
	}

	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if text, err := indentJSON(raw); err == nil {
			return text
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return n.successText(tool)
		}
		return n.Normalize(tool, rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", raw)
}

func (n *Normalizer) successText(tool string) string {
	var buf bytes.Buffer
	if err := n.success.Execute(&buf, successData{Tool: tool, Time: time.Now().UTC()}); err != nil {
		return "Successfully executed " + tool
	}
	return buf.String()
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
