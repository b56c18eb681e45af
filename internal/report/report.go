// Package report answers ad-hoc questions about a built journal graph.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/graph"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/load"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/mention"
	log "github.com/sirupsen/logrus"
)

// Status classifies a top-journal result.
type Status string

const (
	StatusFound      Status = "found"
	StatusNoJournals Status = "no_journals"
	StatusNoMentions Status = "no_mentions"
	StatusReadError  Status = "read_error"
)

// ErrReadGraph is returned when a graph file cannot be opened or parsed.
var ErrReadGraph = errors.New("error reading JSON file")

// Result is the outcome of a top-journal analysis.
type Result struct {
	Status   Status   `json:"status"`
	Journals []string `json:"journals"`
	Count    int      `json:"count"`
	Err      string   `json:"error,omitempty"`
}

// TopJournals finds the journals mentioning the most distinct drugs. Every
// journal reaching the maximum is returned, in graph order. Drugs are counted
// once per journal however many publications mention them. Entries without a
// title are ignored.
func TopJournals(g graph.Graph) Result {
	var order []string
	drugsByJournal := make(map[string]map[string]struct{})
	for _, j := range g.Journals {
		if j.Title == "" {
			continue
		}
		drugs, ok := drugsByJournal[j.Title]
		if !ok {
			drugs = make(map[string]struct{})
			drugsByJournal[j.Title] = drugs
			order = append(order, j.Title)
		}
		for _, bucket := range [][]mention.Mention{j.References.PubMed, j.References.ClinicalTrials} {
			for _, m := range bucket {
				if m.MentionedDrugName != "" {
					drugs[m.MentionedDrugName] = struct{}{}
				}
			}
		}
	}

	if len(order) == 0 {
		return Result{Status: StatusNoJournals, Journals: []string{}}
	}

	maxCount := 0
	for _, drugs := range drugsByJournal {
		maxCount = max(maxCount, len(drugs))
	}
	if maxCount == 0 {
		return Result{Status: StatusNoMentions, Journals: []string{}}
	}

	top := []string{}
	for _, title := range order {
		if len(drugsByJournal[title]) == maxCount {
			top = append(top, title)
		}
	}
	return Result{Status: StatusFound, Journals: top, Count: maxCount}
}

// Evaluate is TopJournals for a graph built in the same run, where the
// number of publications that were searched is known. An empty graph built
// from a non-empty publication set means no title mentioned any drug.
func Evaluate(g graph.Graph, publications int) Result {
	if g.Empty() && publications > 0 {
		return Result{Status: StatusNoMentions, Journals: []string{}}
	}
	return TopJournals(g)
}

// Message renders the result as a sentence.
func (r Result) Message() string {
	switch r.Status {
	case StatusReadError:
		return r.Err
	case StatusNoJournals:
		return "No journals found in the data."
	case StatusNoMentions:
		return "No drug mentions found in any journal."
	}
	if len(r.Journals) == 1 {
		return fmt.Sprintf("The journal that mentions the most different drugs is: %s (with %d drugs).", r.Journals[0], r.Count)
	}
	return fmt.Sprintf("There are %d journals tied for the top spot, each mentioning %d different drugs: %s.",
		len(r.Journals), r.Count, strings.Join(r.Journals, ", "))
}

// ReadGraph loads a graph file, wrapping any failure in ErrReadGraph.
func ReadGraph(path string) (graph.Graph, error) {
	g, err := load.ReadGraph(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("%w: %v", ErrReadGraph, err)
	}
	return g, nil
}

// Analyze reads the graph at path and computes its top journals. A file that
// cannot be read yields a StatusReadError result rather than an error, so
// stale or hand-edited files still produce a readable answer.
func Analyze(path string, logger log.FieldLogger) Result {
	logger = logging.OrDiscard(logger).WithField("file", path)
	logger.Info("finding the top journal(s)")

	g, err := ReadGraph(path)
	if err != nil {
		logger.WithError(err).Error("cannot analyze graph")
		return Result{Status: StatusReadError, Journals: []string{}, Err: err.Error()}
	}
	r := TopJournals(g)
	logger.WithFields(log.Fields{
		"status": r.Status,
		"count":  r.Count,
	}).Info(r.Message())
	return r
}
