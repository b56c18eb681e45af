// Package pipeline runs the extract, preprocess, transform and load stages
// end to end.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/config"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/extract"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/graph"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/load"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/preprocess"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/report"
	log "github.com/sirupsen/logrus"
)

// Stage names, used as the "stage" log field and in errors.
const (
	StageExtract    = "extract"
	StagePreprocess = "preprocess"
	StageTransform  = "transform"
	StageLoad       = "load"
)

// StageError reports which stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Summary describes a completed run.
type Summary struct {
	RunID        string        `json:"run_id"`
	Files        []string      `json:"files"`
	Drugs        int           `json:"drugs"`
	Publications int           `json:"publications"`
	Dropped      int           `json:"dropped"`
	Mentions     int           `json:"mentions"`
	Journals     int           `json:"journals"`
	Output       string        `json:"output"`
	TopJournals  report.Result `json:"top_journals"`
	Duration     string        `json:"duration"`
}

// Run executes every stage with the given configuration. The graph is
// written even when it is empty.
func Run(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	output, err := cfg.DrugGraphPath()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()
	rlog := logging.OrDiscard(logger).WithField("run_id", runID)
	rlog.Info("pipeline started")

	stageLog := rlog.WithField("stage", StageExtract)
	raw, err := extract.New(stageLog).Dir(cfg.RawDataDir())
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageLog = rlog.WithField("stage", StagePreprocess)
	clean, err := preprocess.New(stageLog).Run(raw.Drugs, raw.Publications)
	if err != nil {
		return nil, &StageError{Stage: StagePreprocess, Err: err}
	}

	stageLog = rlog.WithField("stage", StageTransform)
	builder := graph.NewBuilder(graph.WithLogger(stageLog), graph.WithWorkers(cfg.Workers))
	g, err := builder.BuildContext(ctx, clean.Drugs, clean.Publications)
	if err != nil {
		return nil, &StageError{Stage: StageTransform, Err: err}
	}

	stageLog = rlog.WithField("stage", StageLoad)
	stageLog.WithField("path", output).Info("writing journal graph")
	if err := load.WriteGraph(output, g); err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}

	sum := &Summary{
		RunID:        runID,
		Files:        raw.Files,
		Drugs:        len(clean.Drugs),
		Publications: len(clean.Publications),
		Dropped:      clean.Dropped,
		Mentions:     g.MentionCount(),
		Journals:     len(g.Journals),
		Output:       output,
		TopJournals:  report.Evaluate(g, len(clean.Publications)),
		Duration:     time.Since(start).Round(time.Millisecond).String(),
	}
	rlog.WithFields(log.Fields{
		"mentions": sum.Mentions,
		"journals": sum.Journals,
		"output":   sum.Output,
	}).Info("pipeline finished")
	return sum, nil
}
