package main

// Notes:
// - This file contains test helpers used across convert tests.
// - These are not functions under test themselves, but supporting infrastructure.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	html2md "github.com/alnah/go-html2md"
	"github.com/alnah/go-html2md/internal/config"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// articleHTML returns a saved editor page with the given title and body.
func articleHTML(title, body string) string {
	return `<html><body>` +
		`<h2 class="editor-title__text">` + title + `</h2>` +
		`<div class="editor__body-content"><div class="tiptap ProseMirror">` +
		body +
		`</div></div></body></html>`
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// testEnv returns an environment writing to buffers.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Config: config.DefaultConfig(),
	}, stdout, stderr
}

// runConvertArgs parses args and runs the convert command logic.
func runConvertArgs(t *testing.T, env *Environment, args ...string) error {
	t.Helper()
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		t.Fatalf("parseConvertFlags(%v) error = %v", args, err)
	}
	return runConvert(context.Background(), positional, flags, env)
}

// testParams returns conversion params writing files with title naming.
func testParams() *conversionParams {
	return &conversionParams{
		cfg:    config.DefaultConfig(),
		naming: config.NamingTitle,
	}
}

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// mockConverter is a test double for the CLIConverter interface.
type mockConverter struct {
	mu          sync.Mutex
	calls       []html2md.Input
	convertFunc func(ctx context.Context, input html2md.Input) (*html2md.ConvertResult, error)
}

func (m *mockConverter) Convert(ctx context.Context, input html2md.Input) (*html2md.ConvertResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	if m.convertFunc != nil {
		return m.convertFunc(ctx, input)
	}

	return &html2md.ConvertResult{
		Markdown: "# Mock\n\n",
		Title:    "Mock",
		Filename: "Mock.txt",
	}, nil
}

func (m *mockConverter) getCalls() []html2md.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]html2md.Input{}, m.calls...)
}

// testPool hands out the same mock converter to every worker.
type testPool struct {
	mock CLIConverter
	sem  chan CLIConverter
	size int
}

func newTestPool(mock CLIConverter, size int) *testPool {
	if size < 1 {
		size = 1
	}
	p := &testPool{mock: mock, sem: make(chan CLIConverter, size), size: size}
	for i := 0; i < size; i++ {
		p.sem <- mock
	}
	return p
}

func (p *testPool) Acquire() CLIConverter { return <-p.sem }

func (p *testPool) Release(c CLIConverter) { p.sem <- c }

func (p *testPool) Size() int { return p.size }

// failingPool never provides a converter.
type failingPool struct{ size int }

func (p *failingPool) Acquire() CLIConverter { return nil }

func (p *failingPool) Release(CLIConverter) {}

func (p *failingPool) Size() int { return p.size }
