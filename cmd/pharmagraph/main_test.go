package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/extract"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/graph"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/pipeline"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/preprocess"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"missing key", &config.MissingKeyError{Key: config.KeyDrugGraph}, ExitConfigError},
		{"config not found", fmt.Errorf("%w: x.yaml", config.ErrConfigNotFound), ExitConfigError},
		{"no drug files", &pipeline.StageError{Stage: pipeline.StageExtract, Err: extract.ErrNoDrugFiles}, ExitDataError},
		{"no id column", &pipeline.StageError{Stage: pipeline.StagePreprocess, Err: preprocess.ErrNoIDColumn}, ExitDataError},
		{"malformed input", fmt.Errorf("%w: publication 0", graph.ErrMalformedInput), ExitDataError},
		{"other", errors.New("disk full"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	orig := configPath
	defer func() { configPath = orig }()

	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	msg := configErrorMessage(&config.MissingKeyError{Key: config.KeyDrugGraph})
	if !strings.Contains(msg, "No configuration found") {
		t.Errorf("missing file: message = %q, want helpful config message", msg)
	}

	configPath = filepath.Join("..", "..", "config.yaml")
	msg = configErrorMessage(&config.MissingKeyError{Key: config.KeyDrugGraph})
	if !strings.Contains(msg, config.KeyDrugGraph) {
		t.Errorf("existing file: message = %q, want key name", msg)
	}

	if got := configErrorMessage(errors.New("boom")); got != "boom" {
		t.Errorf("configErrorMessage(other) = %q", got)
	}
}

func TestNewConfigResponse(t *testing.T) {
	cfg := &config.Config{
		InputPaths: config.InputPaths{RawDataDir: "data/raw"},
		Workers:    4,
	}
	resp := newConfigResponse(cfg)
	if resp.RawDataDir != "data/raw" || resp.Workers != 4 {
		t.Errorf("newConfigResponse() = %+v", resp)
	}
	if want := []string{config.KeyDrugGraph}; !reflect.DeepEqual(resp.Missing, want) {
		t.Errorf("Missing = %v, want %v", resp.Missing, want)
	}
}
