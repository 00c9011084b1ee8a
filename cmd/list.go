package cmd

import (
	"context"
	"path"
	"strings"

	"cosmos-mcp/internal/cli"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

var (
	listFlags       cli.CommandFlags
	listFilter      string
	listDescription string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools of a running gateway",
	Long: `Lists the MCP tools exposed by a running cosmos-mcp gateway.

Filters:
  --filter       wildcard pattern on the tool name (* and ? supported)
  --description  case-insensitive substring of the description

Examples:
  cosmos-mcp list
  cosmos-mcp list --filter 'openc3_get_*'
  cosmos-mcp list --description telemetry -o json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var describeFlags cli.CommandFlags

var describeCmd = &cobra.Command{
	Use:   "describe <tool>",
	Short: "Show a tool's description and arguments",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

// toolFilter selects tools by name pattern and description substring.
type toolFilter struct {
	Pattern     string
	Description string
}

func (f toolFilter) match(tool mcp.Tool) bool {
	if f.Pattern != "" {
		ok, err := path.Match(f.Pattern, tool.Name)
		if err != nil || !ok {
			return false
		}
	}
	if f.Description != "" && !strings.Contains(strings.ToLower(tool.Description), strings.ToLower(f.Description)) {
		return false
	}
	return true
}

func (f toolFilter) apply(tools []mcp.Tool) []mcp.Tool {
	var out []mcp.Tool
	for _, t := range tools {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// connect creates an executor from flags and connects it.
func connect(ctx context.Context, cmd *cobra.Command, flags *cli.CommandFlags) (*cli.ToolExecutor, cli.ExecutorOptions, error) {
	opts, err := flags.ExecutorOptions()
	if err != nil {
		return nil, opts, err
	}
	opts.Version = GetVersion()
	opts.Out = cmd.OutOrStdout()
	opts.ErrOut = cmd.ErrOrStderr()

	executor, err := cli.NewToolExecutor(opts)
	if err != nil {
		return nil, opts, err
	}
	if err := executor.Connect(ctx); err != nil {
		return nil, opts, err
	}
	return executor, opts, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	executor, opts, err := connect(ctx, cmd, &listFlags)
	if err != nil {
		return err
	}
	defer executor.Close()

	tools, err := executor.ListTools(ctx)
	if err != nil {
		return err
	}
	tools = toolFilter{Pattern: listFilter, Description: listDescription}.apply(tools)
	return cli.FormatTools(opts.Out, tools, opts.Format, opts.NoHeaders)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	executor, opts, err := connect(ctx, cmd, &describeFlags)
	if err != nil {
		return err
	}
	defer executor.Close()

	tool, err := executor.GetTool(ctx, args[0])
	if err != nil {
		return err
	}
	return cli.FormatToolDetail(opts.Out, tool, opts.Format)
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)

	cli.RegisterCommonFlags(listCmd, &listFlags)
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Wildcard pattern on tool names")
	listCmd.Flags().StringVar(&listDescription, "description", "", "Substring of tool descriptions")

	cli.RegisterCommonFlags(describeCmd, &describeFlags)
}
