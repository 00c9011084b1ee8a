package cmd

import (
	"cosmos-mcp/internal/cli"

	"github.com/spf13/cobra"
)

var callFlags cli.CommandFlags

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value ...]",
	Short: "Call a tool on a running gateway",
	Long: `Calls one MCP tool on a running cosmos-mcp gateway and prints the result.

Arguments are given as key=value pairs. Values that parse as JSON keep
their type (numbers, booleans, lists, objects); everything else is a string.
Streaming tools print each chunk as it arrives.

Exit codes: 0 success, 1 usage or transport error, 2 gateway unreachable,
3 the tool reported an error.

Examples:
  cosmos-mcp call ping
  cosmos-mcp call openc3_get_target_names
  cosmos-mcp call openc3_tlm 'tlm_string=INST HEALTH_STATUS TEMP1'
  cosmos-mcp call openc3_cmd 'command_string=INST COLLECT with TYPE NORMAL'
  cosmos-mcp call stream_ping count=3 delay=0.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	toolArgs, err := cli.ParseArguments(args[1:])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	executor, _, err := connect(ctx, cmd, &callFlags)
	if err != nil {
		return err
	}
	defer executor.Close()

	return executor.Execute(ctx, args[0], toolArgs)
}

func init() {
	rootCmd.AddCommand(callCmd)
	cli.RegisterCommonFlags(callCmd, &callFlags)
}
