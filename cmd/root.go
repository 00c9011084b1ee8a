package cmd

import (
	"errors"
	"os"

	"cosmos-mcp/internal/cli"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeUnavailable indicates the gateway could not be reached.
	ExitCodeUnavailable = 2
	// ExitCodeToolError indicates the gateway ran the call and reported an error.
	ExitCodeToolError = 3
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cosmos-mcp",
	Short: "Expose the OpenC3 COSMOS scripting API as MCP tools",
	Long: `cosmos-mcp is a Model Context Protocol gateway for OpenC3 COSMOS.

It turns the functions of the COSMOS script API into MCP tools, so that AI
assistants can send commands, read telemetry and run checks against a
COSMOS installation. Run 'cosmos-mcp serve' to start the gateway, then use
'cosmos-mcp list' and 'cosmos-mcp call' to talk to it from the shell.`,
	// Errors are reported once by Execute; usage is noise at that point.
	SilenceUsage: true,
}

// SetVersion sets the version reported by --version, the version command
// and the MCP handshake. Called from main with the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code that reflects the
// kind of failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "cosmos-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	var connErr *cli.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeUnavailable
	}
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return ExitCodeToolError
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
