package main

import (
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the configuration after applying environment overrides.

Keys:
  input_paths.raw_data_dir  Directory holding the raw drug and publication files
  output_path.drug_graph    Where the journal graph is written (.gz to compress)
  workers                   Matching workers (0 = one per CPU)
  log_level                 debug, info, warn or error`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	resp := newConfigResponse(cfg)

	if humanOutput {
		outputHuman("config:                   %s\n", resp.File)
		outputHuman("input_paths.raw_data_dir: %s\n", resp.RawDataDir)
		outputHuman("output_path.drug_graph:   %s\n", resp.DrugGraph)
		outputHuman("workers:                  %d\n", resp.Workers)
		outputHuman("log_level:                %s\n", resp.LogLevel)
		if len(resp.Missing) > 0 {
			outputHuman("missing:                  %v\n", resp.Missing)
		}
		return nil
	}
	return outputJSON(resp)
}

// ConfigResponse is the JSON output for the config command.
type ConfigResponse struct {
	File       string   `json:"file"`
	RawDataDir string   `json:"raw_data_dir"`
	DrugGraph  string   `json:"drug_graph"`
	Workers    int      `json:"workers"`
	LogLevel   string   `json:"log_level"`
	Missing    []string `json:"missing,omitempty"`
}

func newConfigResponse(cfg *config.Config) ConfigResponse {
	resp := ConfigResponse{
		File:       configPath,
		RawDataDir: cfg.RawDataDir(),
		DrugGraph:  config.ExpandPath(cfg.OutputPath.DrugGraph),
		Workers:    cfg.Workers,
		LogLevel:   cfg.LogLevel,
	}
	if resp.RawDataDir == "" {
		resp.Missing = append(resp.Missing, config.KeyRawDataDir)
	}
	if resp.DrugGraph == "" {
		resp.Missing = append(resp.Missing, config.KeyDrugGraph)
	}
	return resp
}
