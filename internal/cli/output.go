package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	// OutputFormatTable prints a kubectl-style plain table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatWide adds columns to the table
	OutputFormatWide OutputFormat = "wide"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat returns an error listing the valid formats when
// format is not one of them.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatWide, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, wide, json, yaml)", format)
	}
}

const (
	descLengthNormal = 60
	descLengthWide   = 100
)

// plainStyle renders without borders or separators so the output pipes
// cleanly into grep and awk.
func plainStyle() table.Style {
	style := table.StyleDefault
	style.Name = "plain"
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateHeader = false
	style.Options.SeparateRows = false
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = "   "
	return style
}

func newPlainTable(noHeaders bool, headers ...any) table.Writer {
	t := table.NewWriter()
	t.SetStyle(plainStyle())
	if !noHeaders {
		t.AppendHeader(table.Row(headers))
	}
	return t
}

func newDetailTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func render(w io.Writer, t table.Writer) {
	out := t.Render()
	if out == "" {
		return
	}
	// trailing cell padding
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func writeJSON(w io.Writer, data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format as JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func writeYAML(w io.Writer, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format as YAML: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

// oneLine collapses whitespace so a description fits one table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pluralize(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}

type toolListItem struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Arguments   []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

func toolArguments(tool mcp.Tool) []string {
	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// countToolArgs renders "required/total".
func countToolArgs(tool mcp.Tool) string {
	total := len(tool.InputSchema.Properties)
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", len(tool.InputSchema.Required), total)
}

// FormatTools prints the tool list sorted by name.
func FormatTools(w io.Writer, tools []mcp.Tool, format OutputFormat, noHeaders bool) error {
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	switch format {
	case OutputFormatJSON, OutputFormatYAML:
		items := make([]toolListItem, len(tools))
		for i, tool := range tools {
			items[i] = toolListItem{Name: tool.Name, Description: tool.Description, Arguments: toolArguments(tool)}
		}
		if format == OutputFormatJSON {
			return writeJSON(w, items)
		}
		return writeYAML(w, items)
	}

	if len(tools) == 0 {
		fmt.Fprintln(w, "No tools found")
		return nil
	}

	var t table.Writer
	maxDesc, descColumn := descLengthNormal, 2
	if format == OutputFormatWide {
		maxDesc, descColumn = descLengthWide, 3
		t = newPlainTable(noHeaders, "NAME", "ARGS", "DESCRIPTION")
		for _, tool := range tools {
			t.AppendRow(table.Row{tool.Name, countToolArgs(tool), oneLine(tool.Description)})
		}
	} else {
		t = newPlainTable(noHeaders, "NAME", "DESCRIPTION")
		for _, tool := range tools {
			t.AppendRow(table.Row{tool.Name, oneLine(tool.Description)})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: descColumn, WidthMax: maxDesc, WidthMaxEnforcer: text.Trim},
	})
	render(w, t)
	return nil
}

// FormatToolDetail prints one tool with its argument schema.
func FormatToolDetail(w io.Writer, tool mcp.Tool, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		return writeJSON(w, tool)
	case OutputFormatYAML:
		return writeYAML(w, tool)
	}

	t := newDetailTable()
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Name"), tool.Name})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Description"), text.WrapSoft(tool.Description, descLengthWide)})
	render(w, t)

	args := toolArguments(tool)
	if len(args) == 0 {
		fmt.Fprintln(w, "No declared arguments")
		return nil
	}
	required := make(map[string]bool, len(tool.InputSchema.Required))
	for _, name := range tool.InputSchema.Required {
		required[name] = true
	}

	at := newDetailTable()
	at.AppendHeader(table.Row{"ARGUMENT", "TYPE", "REQUIRED"})
	for _, name := range args {
		typ := "any"
		if prop, ok := tool.InputSchema.Properties[name].(map[string]any); ok {
			if s, ok := prop["type"].(string); ok {
				typ = s
			}
		}
		req := ""
		if required[name] {
			req = "yes"
		}
		at.AppendRow(table.Row{name, typ, req})
	}
	render(w, at)
	return nil
}

// FormatResult prints a tool's text result. Results that are JSON are
// reformatted for the requested output; anything else is printed as is.
func FormatResult(w io.Writer, result string, format OutputFormat) error {
	var data any
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		fmt.Fprintln(w, result)
		return nil
	}

	switch format {
	case OutputFormatJSON:
		return writeJSON(w, data)
	case OutputFormatYAML:
		return writeYAML(w, data)
	}

	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t := newDetailTable()
		t.AppendHeader(table.Row{"KEY", "VALUE"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, scalarText(v[k])})
		}
		render(w, t)
	case []any:
		if len(v) == 0 {
			fmt.Fprintln(w, text.FgYellow.Sprint("No items"))
			return nil
		}
		for i, item := range v {
			fmt.Fprintf(w, "  %d. %s\n", i+1, scalarText(item))
		}
		fmt.Fprintf(w, "\n%s\n", text.FgHiBlue.Sprint("Total: "+pluralize(len(v), "item")))
	default:
		fmt.Fprintln(w, result)
	}
	return nil
}

func scalarText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]any, []any:
		out, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(out)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// PolicyRow is one line of a check-policy report.
type PolicyRow struct {
	Name    string `json:"name" yaml:"name"`
	Tool    string `json:"tool,omitempty" yaml:"tool,omitempty"`
	Verdict string `json:"verdict" yaml:"verdict"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// FormatPolicy prints the classification of every namespace member followed
// by a per-verdict summary.
func FormatPolicy(w io.Writer, rows []PolicyRow, format OutputFormat, noHeaders bool) error {
	switch format {
	case OutputFormatJSON:
		return writeJSON(w, rows)
	case OutputFormatYAML:
		return writeYAML(w, rows)
	}

	t := newPlainTable(noHeaders, "NAME", "VERDICT", "REASON", "TOOL")
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Verdict]++
		reason, tool := r.Reason, r.Tool
		if reason == "" {
			reason = "-"
		}
		if tool == "" {
			tool = "-"
		}
		t.AppendRow(table.Row{r.Name, colorVerdict(r.Verdict), reason, tool})
	}
	render(w, t)

	verdicts := make([]string, 0, len(counts))
	for v := range counts {
		verdicts = append(verdicts, v)
	}
	sort.Strings(verdicts)
	parts := make([]string, len(verdicts))
	for i, v := range verdicts {
		parts[i] = fmt.Sprintf("%d %s", counts[v], v)
	}
	fmt.Fprintf(w, "\n%s: %s\n", pluralize(len(rows), "name"), strings.Join(parts, ", "))
	return nil
}

func colorVerdict(v string) string {
	switch v {
	case "accepted":
		return text.FgGreen.Sprint(v)
	case "overridden":
		return text.FgCyan.Sprint(v)
	case "excluded":
		return text.FgYellow.Sprint(v)
	default:
		return v
	}
}
