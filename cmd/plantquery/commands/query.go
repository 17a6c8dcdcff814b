package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plantops/plantquery/internal/config"
)

var outputJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run a single query against the workflow and print the answer",
	Long: `Run one natural-language query through the agent workflow without
starting the HTTP server. Useful for testing connectivity and prompts.

Example:
  plantquery query "What sensors are in area 40-10?"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&outputJSON, "json", false, "Print the full response object as JSON")
}

func runQuery(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	HandleError(err, "Configuration error")
	HandleError(cfg.Validate(), "Configuration error")
	HandleError(setupLog(logLevelFlags), "Failed to setup logging")

	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg)
	HandleError(err, "Startup error")
	defer rt.close()

	result := rt.coordinator.Run(ctx, strings.Join(args, " "))

	if outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		HandleError(encoder.Encode(result), "Failed to encode result")
		return
	}

	fmt.Println(result.Response)
	if len(result.Errors) > 0 {
		fmt.Fprintln(os.Stderr, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
	}
	fmt.Fprintf(os.Stderr, "\n%d agent(s) in %dms\n",
		len(result.ExecutionTrace.AgentsInvoked), result.ExecutionTrace.TotalDurationMS)
}
