package extract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/record"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		src  record.SourceType
		ok   bool
	}{
		{"drugs.csv", KindDrugs, "", true},
		{"DRUG_list.json", KindDrugs, "", true},
		{"pubmed.csv", KindPublications, record.SourcePubMed, true},
		{"PubMed_2020.json", KindPublications, record.SourcePubMed, true},
		{"clinical_trials.csv", KindPublications, record.SourceClinicalTrial, true},
		{"notes.csv", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, src, ok := Classify(tt.name)
			if kind != tt.kind || src != tt.src || ok != tt.ok {
				t.Errorf("Classify(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.name, kind, src, ok, tt.kind, tt.src, tt.ok)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	in := "id,title,journal\n1,First,J1\n2,\"Second, with comma\"\n"
	rows, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[1]["title"] != "Second, with comma" {
		t.Errorf("rows[1][title] = %q", rows[1]["title"])
	}
	if v, ok := rows[1]["journal"]; !ok || v != "" {
		t.Errorf("short row journal = %q, %v; want empty and present", v, ok)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestReadJSONTrailingComma(t *testing.T) {
	in := `[
  {"id": 9, "title": "A", "journal": "J", "score": 1.5},
  {"id": "", "title": "B", "journal": null},
]`
	rows, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "9" {
		t.Errorf("rows[0][id] = %q, want %q", rows[0]["id"], "9")
	}
	if rows[0]["score"] != "1.5" {
		t.Errorf("rows[0][score] = %q, want %q", rows[0]["score"], "1.5")
	}
	if rows[1]["journal"] != "" {
		t.Errorf("null journal = %q, want empty", rows[1]["journal"])
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"not": "an array"`)); err == nil {
		t.Error("ReadJSON() expected error for invalid input")
	}
}

func TestReadJSONL(t *testing.T) {
	in := "{\"atccode\": \"A01\", \"drug\": \"ATROPINE\"}\n\n{\"atccode\": \"A02\", \"drug\": \"ETHANOL\"}\n"
	rows, err := ReadJSONL(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[1]["drug"] != "ETHANOL" {
		t.Errorf("rows[1][drug] = %q", rows[1]["drug"])
	}

	_, err = ReadJSONL(strings.NewReader("{\"a\": 1}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadJSONL() error = %v, want error naming line 2", err)
	}
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("atccode,drug\nA01,ATROPINE\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "drugs.csv.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["drug"] != "ATROPINE" {
		t.Errorf("ReadFile() = %v", rows)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "drugs.csv", "atccode,drug\nA01,ATROPINE\nA02,ETHANOL\n")
	writeFile(t, dir, "pubmed.json", `[{"id": 1, "title": "T1", "date": "2020-01-01", "journal": "J"},]`)
	writeFile(t, dir, "clinical_trials.csv", "id,scientific_title,date,journal\nNCT1,T2,1 January 2020,J\n")
	writeFile(t, dir, "notes.csv", "a\n1\n")
	writeFile(t, dir, "readme.txt", "ignored without warning")
	writeFile(t, dir, "pubmed_broken.json", `[{"id": 1,`)

	logger, hook := test.NewNullLogger()
	res, err := New(logger).Dir(dir)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}

	if len(res.Drugs) != 2 {
		t.Errorf("len(Drugs) = %d, want 2", len(res.Drugs))
	}
	if len(res.Publications) != 2 {
		t.Fatalf("len(Publications) = %d, want 2", len(res.Publications))
	}
	// clinical_trials.csv sorts before pubmed.json
	if got := res.Publications[0][SourceTypeColumn]; got != string(record.SourceClinicalTrial) {
		t.Errorf("Publications[0] source_type = %q", got)
	}
	if got := res.Publications[1][SourceTypeColumn]; got != string(record.SourcePubMed) {
		t.Errorf("Publications[1] source_type = %q", got)
	}
	wantFiles := []string{"clinical_trials.csv", "drugs.csv", "pubmed.json"}
	if strings.Join(res.Files, ",") != strings.Join(wantFiles, ",") {
		t.Errorf("Files = %v, want %v", res.Files, wantFiles)
	}

	var warned, failed bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Data["file"] == "notes.csv" {
			warned = true
		}
		if e.Level == log.ErrorLevel && e.Data["file"] == "pubmed_broken.json" {
			failed = true
		}
	}
	if !warned {
		t.Error("expected warning for unrecognized notes.csv")
	}
	if !failed {
		t.Error("expected error log for pubmed_broken.json")
	}
}

func TestDirErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := New(nil).Dir(filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Fatal("Dir() expected error")
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "drugs.csv", "atccode,drug\n")
		_, err := New(nil).Dir(filepath.Join(dir, "drugs.csv"))
		if !errors.Is(err, ErrNotDirectory) {
			t.Errorf("Dir() error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("no drug files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pubmed.csv", "id,title,date,journal\n1,T,2020-01-01,J\n")
		_, err := New(nil).Dir(dir)
		if !errors.Is(err, ErrNoDrugFiles) {
			t.Errorf("Dir() error = %v, want ErrNoDrugFiles", err)
		}
	})

	t.Run("no publication files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "drugs.csv", "atccode,drug\nA01,ATROPINE\n")
		_, err := New(nil).Dir(dir)
		if !errors.Is(err, ErrNoPublicationFiles) {
			t.Errorf("Dir() error = %v, want ErrNoPublicationFiles", err)
		}
	})
}
