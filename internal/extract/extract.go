// Package extract reads raw drug and publication files from a directory.
package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/logging"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
)

// MaxJSONLLineCapacity is the maximum size of a single JSONL line (1MB).
const MaxJSONLLineCapacity = 1024 * 1024

// SourceTypeColumn is added to every publication row.
const SourceTypeColumn = "source_type"

// Row is one raw record, keyed by the column names found in the file.
type Row map[string]string

// Kind is the kind of record a file holds.
type Kind string

const (
	KindDrugs        Kind = "drugs"
	KindPublications Kind = "publications"
)

// Errors returned by Dir.
var (
	ErrNotDirectory       = errors.New("not a directory")
	ErrNoDrugFiles        = errors.New("no drug files found")
	ErrNoPublicationFiles = errors.New("no publication files found")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
)

// Result holds the rows read from a directory, in file name order.
type Result struct {
	Drugs        []Row
	Publications []Row
	Files        []string
}

// Classify derives what a file holds from its name. Publication files also
// yield their source type. ok is false for files that are neither.
func Classify(name string) (kind Kind, src record.SourceType, ok bool) {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "drug"):
		return KindDrugs, "", true
	case strings.Contains(name, "pubmed"):
		return KindPublications, record.SourcePubMed, true
	case strings.Contains(name, "clinical"):
		return KindPublications, record.SourceClinicalTrial, true
	}
	return "", "", false
}

// format returns the data format of a file name, ignoring a .gz suffix.
func format(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// Extractor reads raw files.
type Extractor struct {
	logger log.FieldLogger
}

// New creates an Extractor. A nil logger discards log output.
func New(logger log.FieldLogger) *Extractor {
	return &Extractor{logger: logging.OrDiscard(logger)}
}

// Dir reads every recognized file directly inside dir. Files that cannot be
// parsed are logged and skipped. It fails if no drug file or no publication
// file was read.
func (e *Extractor) Dir(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading raw data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing raw data directory: %w", err)
	}

	e.logger.WithField("dir", dir).Info("extracting raw data")

	res := &Result{}
	var drugFiles, pubFiles int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		switch format(name) {
		case "csv", "json", "jsonl":
		default:
			continue
		}
		flog := e.logger.WithField("file", name)
		kind, src, ok := Classify(name)
		if !ok {
			flog.Warn("file ignored (unrecognized name)")
			continue
		}

		rows, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			flog.WithError(err).Error("error reading file")
			continue
		}

		switch kind {
		case KindDrugs:
			res.Drugs = append(res.Drugs, rows...)
			drugFiles++
		case KindPublications:
			for _, row := range rows {
				row[SourceTypeColumn] = string(src)
			}
			res.Publications = append(res.Publications, rows...)
			pubFiles++
		}
		res.Files = append(res.Files, name)
		flog.WithFields(log.Fields{"kind": kind, "rows": len(rows)}).Info("file loaded")
	}

	if drugFiles == 0 {
		return nil, ErrNoDrugFiles
	}
	if pubFiles == 0 {
		return nil, ErrNoPublicationFiles
	}
	e.logger.WithFields(log.Fields{
		"drugs":        len(res.Drugs),
		"publications": len(res.Publications),
	}).Info("raw data extraction complete")
	return res, nil
}

// ReadFile reads rows from a .csv, .json or .jsonl file, each optionally
// gzip-compressed.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := pgzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	switch format(path) {
	case "csv":
		return ReadCSV(r)
	case "json":
		return ReadJSON(r)
	case "jsonl":
		return ReadJSONL(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// ReadCSV reads a CSV file with a header line. Short rows leave the missing
// columns empty.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var trailingComma = regexp.MustCompile(`,\s*\]`)

// ReadJSON reads a JSON array of objects. A trailing comma before the closing
// bracket is tolerated.
func ReadJSON(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = trailingComma.ReplaceAll(data, []byte("]"))

	var objs []map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	rows := make([]Row, 0, len(objs))
	for _, obj := range objs {
		rows = append(rows, toRow(obj))
	}
	return rows, nil
}

// ReadJSONL reads one JSON object per line. Empty lines are skipped.
func ReadJSONL(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	var rows []Row
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var obj map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		rows = append(rows, toRow(obj))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading jsonl: %w", err)
	}
	return rows, nil
}

// toRow flattens decoded JSON values to strings. Numbers keep their literal
// form and null becomes the empty string.
func toRow(obj map[string]interface{}) Row {
	row := make(Row, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case nil:
			row[k] = ""
		case string:
			row[k] = v
		case fmt.Stringer:
			row[k] = v.String()
		default:
			row[k] = fmt.Sprint(v)
		}
	}
	return row
}
