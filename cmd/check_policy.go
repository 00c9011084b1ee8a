package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"cosmos-mcp/internal/app"
	"cosmos-mcp/internal/cli"
	"cosmos-mcp/internal/config"
	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	checkPolicyConfigPath string
	checkPolicyOutput     string
	checkPolicyNoHeaders  bool
	checkPolicyVerdict    string
)

var checkPolicyCmd = &cobra.Command{
	Use:   "check-policy",
	Short: "Show which script API names would become tools",
	Long: `Runs the exposure policy over the COSMOS script namespace without
contacting the backend, and prints the decision for every name:

  accepted    exposed as a generic tool
  overridden  replaced by a hand-written tool
  excluded    not exposed (private, denylisted or not callable)

The tool prefix and extra denylist entries come from the same
configuration 'serve' uses.`,
	Args: cobra.NoArgs,
	RunE: runCheckPolicy,
}

// offlineCaller stands in for the backend; classification never calls it.
type offlineCaller struct{}

func (offlineCaller) Call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	return nil, errors.New("check-policy does not contact the backend")
}

// policyRows classifies every namespace member and names the tool each
// accepted or overridden member is exposed as.
func policyRows(gc config.Config) []cli.PolicyRow {
	pipeline := app.NewPipeline(gc.Gateway, offlineCaller{}, time.Now)
	overrides := make(map[string]string, len(pipeline.Overrides))
	for _, d := range pipeline.Overrides {
		overrides[d.SourceName] = d.Name
	}

	members, decisions := pipeline.Classify(cosmos.ScriptNamespace(offlineCaller{}, gc.Backend.Scope))
	rows := make([]cli.PolicyRow, 0, len(members))
	for i, m := range members {
		d := decisions[i]
		row := cli.PolicyRow{Name: m.Name, Verdict: d.Verdict.String(), Reason: string(d.Reason)}
		switch d.Verdict {
		case gateway.Accepted:
			row.Tool = pipeline.Builder.ExposedName(m.Name)
		case gateway.Overridden:
			row.Tool = overrides[m.Name]
		}
		rows = append(rows, row)
	}
	return rows
}

func runCheckPolicy(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateOutputFormat(checkPolicyOutput); err != nil {
		return err
	}
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	gc, err := app.LoadGatewayConfig(app.NewConfig(false, checkPolicyConfigPath))
	if err != nil {
		return err
	}

	rows := policyRows(gc)
	if checkPolicyVerdict != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Verdict == checkPolicyVerdict {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	return cli.FormatPolicy(cmd.OutOrStdout(), rows, cli.OutputFormat(checkPolicyOutput), checkPolicyNoHeaders)
}

func init() {
	rootCmd.AddCommand(checkPolicyCmd)

	checkPolicyCmd.Flags().StringVar(&checkPolicyConfigPath, "config-path", config.DefaultConfigPath(), "Directory containing config.yaml")
	checkPolicyCmd.Flags().StringVarP(&checkPolicyOutput, "output", "o", string(cli.OutputFormatTable), "Output format (table, wide, json, yaml)")
	checkPolicyCmd.Flags().BoolVar(&checkPolicyNoHeaders, "no-headers", false, "Suppress header row in table output")
	checkPolicyCmd.Flags().StringVar(&checkPolicyVerdict, "verdict", "", "Only show one verdict: accepted, overridden or excluded")
}
