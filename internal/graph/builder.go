package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/mention"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrMalformedInput is returned when a drug or publication is missing a field
// that normalization should have guaranteed.
var ErrMalformedInput = errors.New("malformed input")

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers sets the number of goroutines matching publications.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger used to report progress and empty results.
func WithLogger(l log.FieldLogger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder turns drugs and publications into a Graph.
type Builder struct {
	workers int
	logger  log.FieldLogger
}

// NewBuilder creates a Builder that by default uses one worker per CPU.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		workers: runtime.NumCPU(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is BuildContext without cancellation.
func (b *Builder) Build(drugs []record.Drug, pubs []record.Publication) (Graph, error) {
	return b.BuildContext(context.Background(), drugs, pubs)
}

// BuildContext finds every drug mention in the publication titles and groups
// them by journal. No mentions is not an error: an empty graph is returned
// and a warning logged. On error no graph is returned.
func (b *Builder) BuildContext(ctx context.Context, drugs []record.Drug, pubs []record.Publication) (Graph, error) {
	b.logger.WithFields(log.Fields{
		"drugs":        len(drugs),
		"publications": len(pubs),
	}).Info("building journal graph")

	mentions, err := b.FindMentions(ctx, drugs, pubs)
	if err != nil {
		return Graph{}, err
	}
	if len(mentions) == 0 {
		b.logger.Warn("no drug mentions were found in any publication")
		return New(), nil
	}

	g := Group(mentions)
	b.logger.WithFields(log.Fields{
		"mentions": len(mentions),
		"journals": len(g.Journals),
	}).Info("journal graph built")
	return g, nil
}

// FindMentions tests every publication title against every drug name and
// returns the matches in publication order, then drug order. Publications
// are split into contiguous ranges, one per worker, and the per-range results
// concatenated, so the output does not depend on the worker count.
func (b *Builder) FindMentions(ctx context.Context, drugs []record.Drug, pubs []record.Publication) ([]mention.Mention, error) {
	if err := validate(drugs, pubs); err != nil {
		return nil, err
	}
	if len(drugs) == 0 || len(pubs) == 0 {
		return nil, nil
	}

	matchers := make([]*mention.Matcher, len(drugs))
	for i, d := range drugs {
		matchers[i] = mention.NewMatcher(d.Name)
	}

	workers := b.workers
	if workers > len(pubs) {
		workers = len(pubs)
	}
	chunk := (len(pubs) + workers - 1) / workers
	parts := make([][]mention.Mention, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(pubs))
		if lo >= hi {
			continue
		}
		w := w
		g.Go(func() error {
			for _, p := range pubs[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				title := strings.ToLower(p.Title)
				for i, m := range matchers {
					if m.Match(title) {
						parts[w] = append(parts[w], mention.New(p, drugs[i]))
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mentions []mention.Mention
	for _, part := range parts {
		mentions = append(mentions, part...)
	}
	return mentions, nil
}

func validate(drugs []record.Drug, pubs []record.Publication) error {
	for i := range drugs {
		if err := drugs[i].Validate(); err != nil {
			return fmt.Errorf("%w: drug %d (%s): %v", ErrMalformedInput, i, drugs[i].ATCCode, err)
		}
	}
	for i := range pubs {
		if err := pubs[i].Validate(); err != nil {
			return fmt.Errorf("%w: publication %d (%s): %v", ErrMalformedInput, i, pubs[i].ID, err)
		}
	}
	return nil
}
