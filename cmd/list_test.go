package cmd

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestToolFilter(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("openc3_get_target_names", mcp.WithDescription("OpenC3 function: get_target_names")),
		mcp.NewTool("openc3_tlm", mcp.WithDescription("Read a telemetry item")),
		mcp.NewTool("ping", mcp.WithDescription("Check that the gateway is alive")),
	}
	names := func(ts []mcp.Tool) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter toolFilter
		want   []string
	}{
		{"no filter", toolFilter{}, []string{"openc3_get_target_names", "openc3_tlm", "ping"}},
		{"pattern", toolFilter{Pattern: "openc3_*"}, []string{"openc3_get_target_names", "openc3_tlm"}},
		{"single char", toolFilter{Pattern: "p?ng"}, []string{"ping"}},
		{"description is case insensitive", toolFilter{Description: "TELEMETRY"}, []string{"openc3_tlm"}},
		{"both", toolFilter{Pattern: "openc3_*", Description: "function"}, []string{"openc3_get_target_names"}},
		{"bad pattern matches nothing", toolFilter{Pattern: "["}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.apply(tools)))
		})
	}
}
