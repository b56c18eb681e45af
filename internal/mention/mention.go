// Package mention detects drug names inside publication titles.
package mention

import (
	"regexp"
	"strings"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
)

// Mention records that a publication title names a drug. Journal and
// SourceType locate the mention in the graph and are not serialized.
type Mention struct {
	Journal           string            `json:"-"`
	SourceType        record.SourceType `json:"-"`
	ArticleID         string            `json:"article_id"`
	ArticleTitle      string            `json:"article_title"`
	MentionDate       string            `json:"mention_date"`
	MentionedDrugID   string            `json:"mentioned_drug_id"`
	MentionedDrugName string            `json:"mentioned_drug_name"`
}

// New builds the mention of d in p.
func New(p record.Publication, d record.Drug) Mention {
	return Mention{
		Journal:           p.Journal,
		SourceType:        p.SourceType,
		ArticleID:         p.ID,
		ArticleTitle:      p.Title,
		MentionDate:       p.Date,
		MentionedDrugID:   d.ATCCode,
		MentionedDrugName: d.Name,
	}
}

// A word rune is a letter, a digit or an underscore; anything else (or either
// end of the title) bounds a word.
const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}_])`
	rightBoundary = `(?:[^\p{L}\p{N}_]|$)`
)

// Matcher tests titles for whole-word occurrences of a single drug name.
// A Matcher is safe for concurrent use.
type Matcher struct {
	name string
	re   *regexp.Regexp
}

// NewMatcher compiles a matcher for drugName. The name is lowercased and
// quoted, so characters such as "-" or "." only ever match themselves.
func NewMatcher(drugName string) *Matcher {
	name := strings.ToLower(drugName)
	m := &Matcher{name: name}
	if name != "" {
		m.re = regexp.MustCompile(leftBoundary + regexp.QuoteMeta(name) + rightBoundary)
	}
	return m
}

// Name returns the lowercased drug name.
func (m *Matcher) Name() string {
	return m.name
}

// Match reports whether the drug name occurs as a whole word in title.
// The title must already be lowercased.
func (m *Matcher) Match(title string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(title)
}

// Matches reports whether drugName occurs as a whole word in title,
// ignoring case.
func Matches(drugName, title string) bool {
	return NewMatcher(drugName).Match(strings.ToLower(title))
}
