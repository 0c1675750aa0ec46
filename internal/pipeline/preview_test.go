package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestGoldmarkPreview_ToHTML(t *testing.T) {
	t.Parallel()

	preview := NewGoldmarkPreview()

	tests := []struct {
		name        string
		title       string
		content     string
		contains    []string
		notContains []string
	}{
		{
			name:    "document shell and title",
			title:   "Release Notes",
			content: "# Release Notes\n\nBody\n\n",
			contains: []string{
				"<!DOCTYPE html>",
				"<title>Release Notes</title>",
				`<h1 id="release-notes">Release Notes</h1>`,
				"<p>Body</p>",
			},
		},
		{
			name:     "empty title uses default",
			content:  "text\n\n",
			contains: []string{"<title>Preview</title>"},
		},
		{
			name:     "title is escaped",
			title:    `A <b> & "c"`,
			content:  "x\n\n",
			contains: []string{"<title>A &lt;b&gt; &amp; &#34;c&#34;</title>"},
		},
		{
			name:     "GFM table",
			content:  "| A | B |\n| --- | --- |\n| 1 | a\\|b |\n",
			contains: []string{"<table>", "<th>A</th>", "<td>a|b</td>"},
		},
		{
			name:        "raw HTML is not passed through",
			content:     "<script>alert(1)</script>\n\ntext\n\n",
			notContains: []string{"<script>alert(1)</script>"},
		},
		{
			name:     "fenced code is highlighted with classes",
			content:  "```go\npackage main\n```\n\n",
			contains: []string{`class="chroma"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := preview.ToHTML(context.Background(), tt.title, tt.content, "")
			if err != nil {
				t.Fatalf("ToHTML() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("ToHTML() should not contain %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestGoldmarkPreview_SourceDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := NewGoldmarkPreview().ToHTML(context.Background(), "T", "![d](img/d.png)\n\n[remote](https://x.example/)\n\n", dir)
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}

	wantSrc := fileURL(filepath.Join(dir, "img", "d.png"))
	if !strings.Contains(got, wantSrc) {
		t.Errorf("ToHTML() missing resolved image %q:\n%s", wantSrc, got)
	}
	if !strings.Contains(got, `href="https://x.example/"`) {
		t.Errorf("ToHTML() rewrote a remote link:\n%s", got)
	}
}

func TestGoldmarkPreview_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkPreview().ToHTML(ctx, "T", "x", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
