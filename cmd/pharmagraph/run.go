package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/pipeline"
	"github.com/spf13/cobra"
)

var runWorkers int

func init() {
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Number of matching workers (default from config, 0 = one per CPU)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write the journal graph",
	Long: `Run the full pipeline: read every drug, PubMed and clinical trial file in
input_paths.raw_data_dir, clean the records, find drug mentions in titles and
write the journal graph to output_path.drug_graph.

Example:
  pharmagraph run
  pharmagraph run --config conf/prod.yaml --workers 8 --human`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}
	logger := mustNewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		var mk *config.MissingKeyError
		if errors.As(err, &mk) {
			exitWithError(ExitConfigError, "%s", configErrorMessage(err))
		}
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Run %s finished in %s\n", sum.RunID, sum.Duration)
		outputHuman("  drugs:        %d\n", sum.Drugs)
		outputHuman("  publications: %d (%d dropped)\n", sum.Publications, sum.Dropped)
		outputHuman("  mentions:     %d in %d journals\n", sum.Mentions, sum.Journals)
		outputHuman("  output:       %s\n", sum.Output)
		outputHuman("%s\n", sum.TopJournals.Message())
		return nil
	}
	return outputJSON(sum)
}
