package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	text.DisableColors()
	os.Exit(m.Run())
}

func sampleTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("ping", mcp.WithDescription("Check that the gateway is alive")),
		mcp.NewTool("openc3_cmd",
			mcp.WithDescription("Send a command.\n\nAccepts the command string."),
			mcp.WithString("cmd_string", mcp.Required()),
			mcp.WithNumber("timeout"),
		),
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{"table", "wide", "json", "yaml"} {
		assert.NoError(t, ValidateOutputFormat(f), f)
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: table, wide, json, yaml")
}

func TestFormatTools_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTools(&buf, sampleTools(), OutputFormatTable, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[0], "DESCRIPTION")
	assert.True(t, strings.HasPrefix(lines[1], "openc3_cmd"), "sorted by name")
	assert.Contains(t, lines[1], "Send a command. Accepts the command string.")
	assert.True(t, strings.HasPrefix(lines[2], "ping"))
	for _, line := range lines {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestFormatTools_WideAndNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTools(&buf, sampleTools(), OutputFormatWide, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1/2")
	assert.Contains(t, lines[1], "-")
}

func TestFormatTools_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 200)
	var buf bytes.Buffer
	require.NoError(t, FormatTools(&buf, []mcp.Tool{mcp.NewTool("t", mcp.WithDescription(long))}, OutputFormatTable, true))
	assert.NotContains(t, buf.String(), long)
}

func TestFormatTools_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTools(&buf, sampleTools(), OutputFormatJSON, false))

	var items []toolListItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "openc3_cmd", items[0].Name)
	assert.Equal(t, []string{"cmd_string", "timeout"}, items[0].Arguments)
}

func TestFormatTools_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTools(&buf, nil, OutputFormatTable, false))
	assert.Equal(t, "No tools found\n", buf.String())
}

func TestFormatToolDetail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatToolDetail(&buf, sampleTools()[1], OutputFormatTable))

	out := buf.String()
	assert.Contains(t, out, "openc3_cmd")
	assert.Contains(t, out, "cmd_string")
	assert.Contains(t, out, "string")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "number")
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name   string
		result string
		format OutputFormat
		check  func(t *testing.T, out string)
	}{
		{
			name:   "plain text verbatim",
			result: "Successfully executed openc3_cmd",
			format: OutputFormatTable,
			check: func(t *testing.T, out string) {
				assert.Equal(t, "Successfully executed openc3_cmd\n", out)
			},
		},
		{
			name:   "list as numbered lines",
			result: "[\n  \"INST\",\n  \"EXAMPLE\"\n]",
			format: OutputFormatTable,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "  1. INST\n")
				assert.Contains(t, out, "  2. EXAMPLE\n")
				assert.Contains(t, out, "Total: 2 items")
			},
		},
		{
			name:   "map as key value table",
			result: `{"TEMP1": 10.5, "LIMITS": ["RED", "GREEN"]}`,
			format: OutputFormatTable,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "TEMP1")
				assert.Contains(t, out, "10.5")
				assert.Contains(t, out, `["RED","GREEN"]`)
				assert.Less(t, strings.Index(out, "LIMITS"), strings.Index(out, "TEMP1"), "keys sorted")
			},
		},
		{
			name:   "yaml",
			result: `{"x": 1}`,
			format: OutputFormatYAML,
			check: func(t *testing.T, out string) {
				var v map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(out), &v))
				assert.Equal(t, 1, v["x"])
			},
		},
		{
			name:   "scalar json printed as is",
			result: "42",
			format: OutputFormatTable,
			check: func(t *testing.T, out string) {
				assert.Equal(t, "42\n", out)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatResult(&buf, tt.result, tt.format))
			tt.check(t, buf.String())
		})
	}
}

func TestFormatPolicy(t *testing.T) {
	rows := []PolicyRow{
		{Name: "cmd", Verdict: "overridden", Tool: "openc3_cmd"},
		{Name: "get_target_names", Verdict: "accepted", Tool: "openc3_get_target_names"},
		{Name: "prompt", Verdict: "excluded", Reason: "denylisted"},
		{Name: "_private", Verdict: "excluded", Reason: "private-convention"},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatPolicy(&buf, rows, OutputFormatTable, false))
	out := buf.String()
	assert.Contains(t, out, "VERDICT")
	assert.Contains(t, out, "denylisted")
	assert.Contains(t, out, "4 names: 1 accepted, 2 excluded, 1 overridden")

	buf.Reset()
	require.NoError(t, FormatPolicy(&buf, rows, OutputFormatJSON, false))
	var decoded []PolicyRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}
