package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ErrInspection indicates the Markdown could not be walked.
var ErrInspection = errors.New("markdown inspection failed")

// Summary counts the block and inline constructs a GFM parser recognizes
// in a Markdown document.
type Summary struct {
	Headings   int
	Paragraphs int
	Lists      int
	ListItems  int
	Tables     int
	Links      int
	Images     int
	CodeBlocks int
}

// Inspector abstracts structural inspection of Markdown output.
type Inspector interface {
	Inspect(ctx context.Context, content string) (Summary, error)
}

// GoldmarkInspector parses Markdown with goldmark and the GFM extension.
type GoldmarkInspector struct {
	md goldmark.Markdown
}

// NewGoldmarkInspector creates a GoldmarkInspector with GFM tables enabled.
func NewGoldmarkInspector() *GoldmarkInspector {
	return &GoldmarkInspector{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Inspect parses content and counts what the parser recognized.
// Runs in a goroutine so a cancelled context returns promptly.
func (i *GoldmarkInspector) Inspect(ctx context.Context, content string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	type result struct {
		summary Summary
		err     error
	}

	done := make(chan result, 1)

	go func() {
		src := []byte(content)
		doc := i.md.Parser().Parse(text.NewReader(src))

		var s Summary
		err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch n.Kind() {
			case ast.KindHeading:
				s.Headings++
			case ast.KindParagraph:
				s.Paragraphs++
			case ast.KindList:
				s.Lists++
			case ast.KindListItem:
				s.ListItems++
			case ast.KindLink:
				s.Links++
			case ast.KindImage:
				s.Images++
			case ast.KindFencedCodeBlock:
				s.CodeBlocks++
			case extast.KindTable:
				s.Tables++
			}
			return ast.WalkContinue, nil
		})
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrInspection, err)}
			return
		}
		done <- result{summary: s}
	}()

	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case r := <-done:
		return r.summary, r.err
	}
}
