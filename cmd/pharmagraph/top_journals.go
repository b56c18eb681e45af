package main

import (
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(topJournalsCmd)
}

var topJournalsCmd = &cobra.Command{
	Use:   "top-journals [graph.json]",
	Short: "Show the journals mentioning the most distinct drugs",
	Long: `Show the journal (or journals, on a tie) mentioning the most distinct drugs
in a journal graph. The graph path defaults to output_path.drug_graph.

A graph that cannot be read is reported in the result rather than as a
command failure.

Example:
  pharmagraph top-journals
  pharmagraph top-journals data/output/drug_graph.json --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTopJournals,
}

func runTopJournals(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := mustNewLogger(cfg)

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		p, err := cfg.DrugGraphPath()
		if err != nil {
			exitWithError(ExitConfigError, "%s", configErrorMessage(err))
		}
		path = p
	}

	res := report.Analyze(path, logger)
	if humanOutput {
		outputHuman("%s\n", res.Message())
		return nil
	}
	return outputJSON(TopJournalsResponse{Result: res, Graph: path, Message: res.Message()})
}

// TopJournalsResponse is the JSON output for the top-journals command.
type TopJournalsResponse struct {
	report.Result
	Graph   string `json:"graph"`
	Message string `json:"message"`
}
