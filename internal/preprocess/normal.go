package preprocess

import (
	"regexp"
	"strings"
)

// Normalizer transforms a string.
type Normalizer interface {
	Normalize(string) string
}

// NormalizerFunc adapts a plain function to a Normalizer.
type NormalizerFunc func(string) string

func (f NormalizerFunc) Normalize(s string) string { return f(s) }

// Pipeline applies normalizers in order.
type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

// LowerNormalizer lowercases.
type LowerNormalizer struct{}

func (LowerNormalizer) Normalize(v string) string {
	return strings.ToLower(v)
}

// RegexpNormalizer replaces every match of Pattern with Repl.
type RegexpNormalizer struct {
	Pattern *regexp.Regexp
	Repl    string
}

func (r RegexpNormalizer) Normalize(v string) string {
	return r.Pattern.ReplaceAllString(v, r.Repl)
}

// CollapseWSNormalizer collapses whitespace runs to a single space and trims.
type CollapseWSNormalizer struct{}

func (CollapseWSNormalizer) Normalize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

var (
	// literal backslash escapes such as \xc3 left behind by broken exports
	escapeSeq = regexp.MustCompile(`\\x[0-9a-f]{2}`)
	htmlTag   = regexp.MustCompile(`<.*?>`)
	// word chars, whitespace, Latin-1 letters and hyphens survive
	punct = regexp.MustCompile(`[^\p{L}\p{N}_\s\x{00C0}-\x{00FF}-]`)
)

// TextPipeline is the cleaning applied to titles and journal names.
var TextPipeline = &Pipeline{
	Normalizer: []Normalizer{
		LowerNormalizer{},
		RegexpNormalizer{Pattern: escapeSeq},
		RegexpNormalizer{Pattern: htmlTag},
		RegexpNormalizer{Pattern: punct, Repl: " "},
		CollapseWSNormalizer{},
	},
}

// CleanText normalizes free text with TextPipeline.
func CleanText(s string) string {
	return TextPipeline.Normalize(s)
}
