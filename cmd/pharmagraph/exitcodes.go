package main

import (
	"errors"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/extract"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/graph"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/preprocess"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, missing keys)
	ExitDataError   = 3 // Data error (missing input files, malformed records)
)

// exitCodeFor maps a pipeline error onto an exit code.
func exitCodeFor(err error) int {
	var mk *config.MissingKeyError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &mk), errors.Is(err, config.ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, extract.ErrNotDirectory),
		errors.Is(err, extract.ErrNoDrugFiles),
		errors.Is(err, extract.ErrNoPublicationFiles),
		errors.Is(err, preprocess.ErrNoIDColumn),
		errors.Is(err, graph.ErrMalformedInput):
		return ExitDataError
	}
	return ExitError
}
