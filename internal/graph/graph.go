// Package graph builds the journal-centric report of drug mentions.
package graph

import (
	"sort"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/mention"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
)

// Graph is the journal-centric mention report.
type Graph struct {
	Journals []Journal `json:"journals"`
}

// Journal groups the mentions found in one journal's publications.
type Journal struct {
	Title      string     `json:"title"`
	References References `json:"references"`
}

// References splits a journal's mentions by publication source. Both
// buckets are always non-nil so they serialize as arrays.
type References struct {
	PubMed         []mention.Mention `json:"pubmed"`
	ClinicalTrials []mention.Mention `json:"clinical_trials"`
}

// New returns an empty graph.
func New() Graph {
	return Graph{Journals: []Journal{}}
}

// Empty reports whether the graph has no journals.
func (g Graph) Empty() bool {
	return len(g.Journals) == 0
}

// MentionCount returns the number of mentions across all journals.
func (g Graph) MentionCount() int {
	n := 0
	for _, j := range g.Journals {
		n += len(j.References.PubMed) + len(j.References.ClinicalTrials)
	}
	return n
}

// Group arranges mentions into journal entries. Journals are ordered
// lexicographically by title; within a journal each bucket keeps the order
// of mentions.
func Group(mentions []mention.Mention) Graph {
	g := New()
	if len(mentions) == 0 {
		return g
	}

	byJournal := make(map[string]*References)
	var titles []string
	for _, m := range mentions {
		refs, ok := byJournal[m.Journal]
		if !ok {
			refs = &References{
				PubMed:         []mention.Mention{},
				ClinicalTrials: []mention.Mention{},
			}
			byJournal[m.Journal] = refs
			titles = append(titles, m.Journal)
		}
		switch m.SourceType {
		case record.SourcePubMed:
			refs.PubMed = append(refs.PubMed, m)
		case record.SourceClinicalTrial:
			refs.ClinicalTrials = append(refs.ClinicalTrials, m)
		}
	}

	sort.Strings(titles)
	for _, title := range titles {
		g.Journals = append(g.Journals, Journal{
			Title:      title,
			References: *byJournal[title],
		})
	}
	return g
}
