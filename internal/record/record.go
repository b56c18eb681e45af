// Package record defines the normalized drug and publication records the
// mention graph is built from.
package record

import (
	"errors"
	"fmt"
)

// SourceType identifies where a publication was harvested from.
type SourceType string

const (
	SourcePubMed        SourceType = "pubmed"
	SourceClinicalTrial SourceType = "clinical_trial"
)

// Drug is a drug whose name is searched for in publication titles.
type Drug struct {
	ATCCode string `json:"atc_code"`
	Name    string `json:"name"`
}

// Publication is a cleaned publication. Title and Journal are lowercased and
// normalized, Date is formatted YYYY-MM-DD.
type Publication struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Date         string     `json:"date"`
	Journal      string     `json:"journal"`
	SourceType   SourceType `json:"source_type"`
	SurrogateKey string     `json:"surrogate_key,omitempty"`
}

// Validation errors.
var (
	ErrEmptyName         = errors.New("name is required")
	ErrEmptyTitle        = errors.New("title is required")
	ErrEmptyJournal      = errors.New("journal is required")
	ErrInvalidSourceType = errors.New("source_type must be pubmed or clinical_trial")
	ErrUnknownSourceType = errors.New("unknown source type")
)

// ParseSourceType maps a raw source type string onto a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourcePubMed, SourceClinicalTrial:
		return SourceType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSourceType, s)
}

// Validate checks the fields the mention graph relies on.
func (d *Drug) Validate() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Validate checks the fields the mention graph relies on. An empty ID is
// allowed; upstream data does not always carry one.
func (p *Publication) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.Journal == "" {
		return ErrEmptyJournal
	}
	if _, err := ParseSourceType(string(p.SourceType)); err != nil {
		return ErrInvalidSourceType
	}
	return nil
}
