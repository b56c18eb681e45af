// Package preprocess turns raw extracted rows into cleaned drug and
// publication records.
package preprocess

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/extract"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
	log "github.com/sirupsen/logrus"
)

// ErrNoIDColumn is returned when publication rows carry no id column under
// any of the known names.
var ErrNoIDColumn = errors.New("id column not found")

// Column names recognized in raw files, in order of preference.
var (
	idColumns      = []string{"id", "Id", "publication_id"}
	titleColumns   = []string{"scientific_title", "title"}
	atcCodeColumns = []string{"atccode", "atc_code"}
	drugColumns    = []string{"drug", "name"}
)

// Result is the output of preprocessing.
type Result struct {
	Drugs        []record.Drug
	Publications []record.Publication
	// Dropped counts publication rows discarded during cleaning.
	Dropped int
	// DroppedDrugs counts drug rows discarded for lack of a name.
	DroppedDrugs int
}

// Preprocessor cleans raw rows.
type Preprocessor struct {
	logger log.FieldLogger
}

// New creates a Preprocessor. A nil logger discards log output.
func New(logger log.FieldLogger) *Preprocessor {
	return &Preprocessor{logger: logging.OrDiscard(logger)}
}

// Run cleans drug and publication rows.
func (p *Preprocessor) Run(drugs, publications []extract.Row) (*Result, error) {
	p.logger.Info("starting data preprocessing")

	res := &Result{}
	res.Drugs, res.DroppedDrugs = p.Drugs(drugs)

	pubs, dropped, err := p.Publications(publications)
	if err != nil {
		return nil, err
	}
	res.Publications = pubs
	res.Dropped = dropped

	p.logger.WithFields(log.Fields{
		"drugs":        len(res.Drugs),
		"publications": len(res.Publications),
		"dropped":      res.Dropped,
	}).Info("preprocessing complete")
	return res, nil
}

// Drugs maps raw drug rows onto records. Rows without a name are dropped.
func (p *Preprocessor) Drugs(rows []extract.Row) ([]record.Drug, int) {
	drugs := make([]record.Drug, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		d := record.Drug{
			ATCCode: strings.TrimSpace(first(row, atcCodeColumns)),
			Name:    strings.TrimSpace(first(row, drugColumns)),
		}
		if err := d.Validate(); err != nil {
			p.logger.WithFields(log.Fields{"row": i, "atc_code": d.ATCCode}).Warn("drug dropped (no name)")
			dropped++
			continue
		}
		drugs = append(drugs, d)
	}
	return drugs, dropped
}

// Publications standardizes columns, parses dates, cleans text and drops the
// rows that cannot be used. It returns the kept records and the number of
// dropped rows.
func (p *Preprocessor) Publications(rows []extract.Row) ([]record.Publication, int, error) {
	if len(rows) > 0 && !hasAny(rows, idColumns) {
		return nil, 0, ErrNoIDColumn
	}

	pubs := make([]record.Publication, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		rlog := p.logger.WithField("row", i)

		title := first(row, titleColumns)
		if strings.TrimSpace(title) == "" {
			rlog.Debug("publication dropped (no title)")
			dropped++
			continue
		}
		date, err := FormatDate(row["date"])
		if err != nil {
			rlog.WithError(err).Debug("publication dropped (invalid date)")
			dropped++
			continue
		}
		src, err := record.ParseSourceType(row[extract.SourceTypeColumn])
		if err != nil {
			rlog.WithError(err).Warn("publication dropped")
			dropped++
			continue
		}

		pub := record.Publication{
			ID:         FormatID(first(row, idColumns)),
			Title:      CleanText(title),
			Date:       date,
			Journal:    CleanText(row["journal"]),
			SourceType: src,
		}
		if err := pub.Validate(); err != nil {
			rlog.WithError(err).Debug("publication dropped after cleaning")
			dropped++
			continue
		}
		pub.SurrogateKey = SurrogateKey(pub)
		pubs = append(pubs, pub)
	}
	return pubs, dropped, nil
}

// SurrogateKey is the hex SHA-256 of "title-date-journal".
func SurrogateKey(p record.Publication) string {
	sum := sha256.Sum256([]byte(p.Title + "-" + p.Date + "-" + p.Journal))
	return hex.EncodeToString(sum[:])
}

// FormatID renders numeric ids as integers ("1.0" becomes "1") and returns
// anything else unchanged.
func FormatID(s string) string {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// first returns the first non-empty value among cols.
func first(row extract.Row, cols []string) string {
	for _, c := range cols {
		if v := row[c]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func hasAny(rows []extract.Row, cols []string) bool {
	for _, row := range rows {
		for _, c := range cols {
			if _, ok := row[c]; ok {
				return true
			}
		}
	}
	return false
}
