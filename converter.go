package html2md

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-html2md/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Inspector       = (*pipeline.GoldmarkInspector)(nil)
	_ pipeline.PreviewRenderer = (*pipeline.GoldmarkPreview)(nil)
)

// Converter orchestrates the HTML-to-Markdown conversion.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is not safe for concurrent use; use ConverterPool for parallelism.
type Converter struct {
	cfg       converterConfig
	selectors *compiledSelectors
	baseURL   *url.URL
	inspector pipeline.Inspector
	preview   pipeline.PreviewRenderer
	renderer  pageRenderer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithSelectors, WithBaseURL, WithCellLinks).
// Returns an error if a selector, base URL or mode is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			selectors:    DefaultSelectors(),
			cellLinks:    CellLinksVerbatim,
			codeLanguage: CodeLanguageNone,
			timeout:      DefaultTimeout,
			logger:       discardLogger(),
		},
		inspector: pipeline.NewGoldmarkInspector(),
	}

	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.cfg.cellLinks, err = ParseCellLinkMode(string(c.cfg.cellLinks)); err != nil {
		return nil, err
	}
	if c.cfg.codeLanguage, err = ParseCodeLanguageMode(string(c.cfg.codeLanguage)); err != nil {
		return nil, err
	}

	if c.selectors, err = c.cfg.selectors.compile(); err != nil {
		return nil, err
	}

	if c.cfg.baseURL != "" {
		if c.baseURL, err = parseBaseURL(c.cfg.baseURL); err != nil {
			return nil, err
		}
	}

	if c.cfg.preview && c.preview == nil {
		c.preview = pipeline.NewGoldmarkPreview()
	}

	// Browser launches lazily on the first Input.Render conversion
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.timeout, c.cfg.logger)
	}

	return c, nil
}

// Convert locates the article in the input document and renders it as
// Markdown. It fails with ErrNotFound when the article selector matches
// nothing. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		if err != nil {
			c.setStatus(StatusError)
		}
	}()

	c.setStatus(StatusWaiting)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	doc, err := c.load(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.setStatus(StatusConverting)

	loc, err := c.selectors.locate(doc)
	if err != nil {
		c.cfg.logger.WithField("selector", c.cfg.selectors.Article).Debug("article not found")
		return nil, err
	}

	base, err := c.resolveBaseURL(input, doc)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		BaseURL:      base,
		CellLinks:    c.cfg.cellLinks,
		CodeLanguage: c.cfg.codeLanguage,
		AlignTables:  c.cfg.alignTables,
	}
	md, err := r.Convert(loc.Article, loc.Title)
	if err != nil {
		return nil, err
	}

	var title string
	if loc.Title != nil {
		title = trimSpace(loc.Title.TextContent())
	}

	c.cfg.logger.WithFields(logrus.Fields{
		"title": title,
		"bytes": len(md),
	}).Debug("article rendered")

	summary, err := c.inspector.Inspect(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("inspecting markdown: %w", err)
	}

	res := &ConvertResult{
		Markdown: md,
		Title:    title,
		Filename: Filename(title),
		Summary:  Summary(summary),
	}

	if c.preview != nil {
		var sourceDir string
		if input.Path != "" {
			sourceDir = filepath.Dir(input.Path)
		}
		preview, err := c.preview.ToHTML(ctx, title, md, sourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPreview, err)
		}
		res.PreviewHTML = []byte(preview)
	}

	c.setStatus(StatusComplete)
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// load parses the input document, rendering it in the browser first when
// requested.
func (c *Converter) load(ctx context.Context, input Input) (*Document, error) {
	switch {
	case input.Path == "":
		return ParseHTMLString(input.HTML)

	case input.Render:
		c.cfg.logger.WithField("path", input.Path).Debug("rendering page in browser")
		html, err := c.renderer.RenderFile(ctx, input.Path, c.cfg.selectors.Article)
		if err != nil {
			return nil, err
		}
		return ParseHTMLString(html)

	default:
		f, err := os.Open(input.Path) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("reading HTML file: %w", err)
		}
		defer f.Close()
		return ParseHTML(f)
	}
}

// resolveBaseURL picks the base URL for link resolution: the input's, then
// the converter's, then the document's <base href>. A relative or invalid
// <base href> is ignored.
func (c *Converter) resolveBaseURL(input Input, doc *Document) (*url.URL, error) {
	if input.BaseURL != "" {
		return parseBaseURL(input.BaseURL)
	}
	if c.baseURL != nil {
		return c.baseURL, nil
	}
	if href := doc.BaseHref(); href != "" {
		u, err := parseBaseURL(href)
		if err != nil {
			c.cfg.logger.WithField("href", href).Debug("ignoring document base URL")
			return nil, nil
		}
		return u, nil
	}
	return nil, nil
}

func (c *Converter) setStatus(s Status) {
	if c.cfg.onStatus != nil {
		c.cfg.onStatus(s)
	}
}

// discardLogger returns a logger that writes nothing.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
