package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// ---------------------------------------------------------------------------
// TestNewLogger - Level and format selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     commonFlags
		wantLevel logrus.Level
	}{
		{"default", commonFlags{}, logrus.InfoLevel},
		{"quiet", commonFlags{quiet: true}, logrus.ErrorLevel},
		{"verbose", commonFlags{verbose: true}, logrus.DebugLevel},
		{"quiet wins over verbose", commonFlags{quiet: true, verbose: true}, logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := newLogger(&bytes.Buffer{}, tt.flags)
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}
			if l.GetLevel() != tt.wantLevel {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := newLogger(&buf, commonFlags{logFormat: "json"})
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	l.WithField("files", 3).Info("starting")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "starting" || entry["files"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := newLogger(&buf, commonFlags{logFormat: "text"})
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	l.Warn("careful")
	if !strings.Contains(buf.String(), `msg=careful`) {
		t.Errorf("output = %q, want text format", buf.String())
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := newLogger(&bytes.Buffer{}, commonFlags{logFormat: "xml"})
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("error = %v, want ErrInvalidLogFormat", err)
	}
}
