package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// EndpointEnvVar overrides the default gateway endpoint.
const EndpointEnvVar = "COSMOS_MCP_ENDPOINT"

// DefaultEndpoint is the streamable HTTP endpoint of a gateway running with
// the default server settings.
const DefaultEndpoint = "http://localhost:3443/mcp"

// CommandFlags holds the flags shared by commands that talk to a running
// gateway.
type CommandFlags struct {
	OutputFormat string
	NoHeaders    bool
	Quiet        bool
	Endpoint     string
}

// RegisterCommonFlags registers:
//   - --output/-o: table, wide, json or yaml
//   - --no-headers
//   - --quiet/-q: no spinner or progress output
//   - --endpoint: gateway URL (env: COSMOS_MCP_ENDPOINT)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, wide, json, yaml)")
	cmd.PersistentFlags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.Endpoint, "endpoint", GetDefaultEndpoint(), "Gateway endpoint URL (env: "+EndpointEnvVar+")")
}

// GetDefaultEndpoint returns the endpoint from the environment, or
// DefaultEndpoint.
func GetDefaultEndpoint() string {
	if v := os.Getenv(EndpointEnvVar); v != "" {
		return v
	}
	return DefaultEndpoint
}

// ExecutorOptions converts the flags into executor options after
// validating the output format.
func (f *CommandFlags) ExecutorOptions() (ExecutorOptions, error) {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return ExecutorOptions{}, err
	}
	return ExecutorOptions{
		Format:    OutputFormat(f.OutputFormat),
		NoHeaders: f.NoHeaders,
		Quiet:     f.Quiet,
		Endpoint:  f.Endpoint,
	}, nil
}
