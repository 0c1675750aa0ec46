package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     convertFlags
		wantArgs []string
	}{
		{
			name:     "no flags",
			args:     []string{"page.html"},
			want:     convertFlags{},
			wantArgs: []string{"page.html"},
		},
		{
			name:     "stdin positional",
			args:     []string{"-", "--stdout"},
			want:     convertFlags{outputMode: outputFlags{stdout: true}},
			wantArgs: []string{"-"},
		},
		{
			name: "short flags",
			args: []string{"-o", "out", "-w", "4", "-t", "1m", "-c", "work", "-q", "-v", "-r", "dir"},
			want: convertFlags{
				common:  commonFlags{config: "work", quiet: true, verbose: true},
				output:  "out",
				workers: 4,
				timeout: "1m",
				extract: extractFlags{render: true},
			},
			wantArgs: []string{"dir"},
		},
		{
			name: "long flags",
			args: []string{
				"--article-selector", "article", "--title-selector", "h1",
				"--base-url", "https://example.com/", "--cell-links", "normalize",
				"--code-lang", "detect", "--align-tables",
				"--naming", "source", "--preview", "--log-format", "json",
				"page.html",
			},
			want: convertFlags{
				common:     commonFlags{logFormat: "json"},
				extract:    extractFlags{article: "article", title: "h1"},
				markdown:   markdownFlags{baseURL: "https://example.com/", cellLinks: "normalize", codeLang: "detect", align: true},
				outputMode: outputFlags{naming: "source", preview: true},
			},
			wantArgs: []string{"page.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, args, err := parseConvertFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseConvertFlags() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, *got, cmp.AllowUnexported(
				convertFlags{}, commonFlags{}, extractFlags{}, markdownFlags{}, outputFlags{},
			)); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConvertFlags_Unknown(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if _, _, err := parseConvertFlags([]string{"--nope"}, &out); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if out.Len() == 0 {
		t.Error("usage should be printed on error")
	}
}
