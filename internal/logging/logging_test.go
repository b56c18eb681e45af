package logging

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}

	logger.Info("hidden")
	logger.WithField("count", 0).Warn("no drug mentions")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "no drug mentions") || !strings.Contains(out, "count=0") {
		t.Errorf("warning missing from output: %q", out)
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	logger, err := New("", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", &bytes.Buffer{}); err == nil {
		t.Error("New() should reject an unknown level")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l := Discard()
	if OrDiscard(l) != log.FieldLogger(l) {
		t.Error("OrDiscard should return the given logger")
	}
}
