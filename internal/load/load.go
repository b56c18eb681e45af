// Package load writes the journal graph to disk and reads it back.
package load

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/mnadourOfficial/servier-data-pipeline-mna/internal/graph"
	"github.com/segmentio/encoding/json"
)

// Indent is the indentation used for the written graph.
const Indent = "    "

// IsGzip reports whether path names a gzip-compressed file.
func IsGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Encode writes g as indented JSON. Non-ASCII text and HTML characters are
// written as is.
func Encode(w io.Writer, g graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(g)
}

// Decode reads a graph written by Encode.
func Decode(r io.Reader) (graph.Graph, error) {
	var g graph.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return graph.Graph{}, err
	}
	return g, nil
}

// WriteGraph writes g to path, creating parent directories as needed. Paths
// ending in .gz are gzip-compressed. The graph is written to a temporary file
// first and renamed into place, so a failed write never leaves a partial
// graph behind.
func WriteGraph(path string, g graph.Graph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := writeTo(tmp, path, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving graph into place: %w", err)
	}
	return nil
}

func writeTo(f *os.File, path string, g graph.Graph) error {
	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var zw *pgzip.Writer
	if IsGzip(path) {
		zw = pgzip.NewWriter(bw)
		w = zw
	}
	if err := Encode(w, g); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing graph: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	return nil
}

// ReadGraph reads a graph from path, decompressing .gz files.
func ReadGraph(path string) (graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Graph{}, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if IsGzip(path) {
		zr, err := pgzip.NewReader(r)
		if err != nil {
			return graph.Graph{}, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	g, err := Decode(r)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}
