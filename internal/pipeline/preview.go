package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdhtml "html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrPreviewConversion indicates preview rendering failed.
var ErrPreviewConversion = errors.New("preview conversion failed")

// previewTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// defaultPreviewTitle is used when the document has no title.
const defaultPreviewTitle = "Preview"

// PreviewRenderer abstracts Markdown to HTML preview rendering.
type PreviewRenderer interface {
	ToHTML(ctx context.Context, title, content, sourceDir string) (string, error)
}

// GoldmarkPreview renders Markdown previews using goldmark (pure Go).
type GoldmarkPreview struct {
	md goldmark.Markdown
}

// NewGoldmarkPreview creates a GoldmarkPreview with GFM extensions and
// syntax highlighting.
func NewGoldmarkPreview() *GoldmarkPreview {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &GoldmarkPreview{md: md}
}

// ToHTML renders content to a standalone HTML5 document titled title.
// Relative image and link paths are resolved against sourceDir when it is
// not empty. Goldmark has no context support, so conversion runs in a
// goroutine and the caller's context is honored via select.
func (p *GoldmarkPreview) ToHTML(ctx context.Context, title, content, sourceDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if title == "" {
		title = defaultPreviewTitle
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := p.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewConversion, err)}
			return
		}
		body, err := ResolveLocalPaths(buf.String(), sourceDir)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(previewTemplate, stdhtml.EscapeString(title), body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
