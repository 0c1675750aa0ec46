package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGoldmarkInspector_Inspect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    Summary
	}{
		{
			name:    "empty",
			content: "",
			want:    Summary{},
		},
		{
			name:    "headings and paragraphs",
			content: "# Title\n\n## Section\n\nFirst.\n\nSecond.\n\n",
			want:    Summary{Headings: 2, Paragraphs: 2},
		},
		{
			name:    "unordered and ordered lists",
			content: "* a\n* b\n\n1. one\n2. two\n3. three\n\n",
			want:    Summary{Lists: 2, ListItems: 5},
		},
		{
			name:    "pipe table",
			content: "| A | B |\n| --- | --- |\n| 1 | 2 |\n",
			want:    Summary{Tables: 1},
		},
		{
			name:    "escaped pipe stays in one table",
			content: "| A |\n| --- |\n| a\\|b |\n",
			want:    Summary{Tables: 1},
		},
		{
			name:    "link and image",
			content: "[Doc](/internal/doc)\n\n![Logo](/logo.png)\n\n",
			want:    Summary{Paragraphs: 2, Links: 1, Images: 1},
		},
		{
			name:    "fenced code",
			content: "```\nx := 1\n```\n\n",
			want:    Summary{CodeBlocks: 1},
		},
		{
			name:    "table without separator is a paragraph",
			content: "| A | B |\n| 1 | 2 |\n",
			want:    Summary{Paragraphs: 1},
		},
	}

	inspector := NewGoldmarkInspector()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := inspector.Inspect(context.Background(), tt.content)
			if err != nil {
				t.Fatalf("Inspect() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoldmarkInspector_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkInspector().Inspect(ctx, "# Title\n")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Inspect() error = %v, want context.Canceled", err)
	}
}
