package html2md

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CellLinkMode selects how anchors inside table cells are rendered.
type CellLinkMode string

// Cell link modes.
const (
	// CellLinksVerbatim renders "[text](href)" for every cell anchor.
	CellLinksVerbatim CellLinkMode = "verbatim"

	// CellLinksNormalize applies the same collapse and origin stripping
	// rules as anchors outside tables, reading href only.
	CellLinksNormalize CellLinkMode = "normalize"
)

// ParseCellLinkMode parses a cell link mode (case-insensitive).
// An empty string selects CellLinksVerbatim.
func ParseCellLinkMode(s string) (CellLinkMode, error) {
	switch m := CellLinkMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CellLinksVerbatim, nil
	case CellLinksVerbatim, CellLinksNormalize:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be verbatim or normalize)", ErrInvalidCellLinks, s)
}

// CodeLanguageMode selects how fenced code blocks are labeled.
type CodeLanguageMode string

// Code language modes.
const (
	CodeLanguageNone   CodeLanguageMode = "none"
	CodeLanguageClass  CodeLanguageMode = "class"
	CodeLanguageDetect CodeLanguageMode = "detect"
)

// ParseCodeLanguageMode parses a code language mode (case-insensitive).
// An empty string selects CodeLanguageNone.
func ParseCodeLanguageMode(s string) (CodeLanguageMode, error) {
	switch m := CodeLanguageMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CodeLanguageNone, nil
	case CodeLanguageNone, CodeLanguageClass, CodeLanguageDetect:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be none, class, or detect)", ErrInvalidCodeLanguage, s)
}

// Status reports conversion progress.
type Status string

// Conversion statuses, in the order a conversion reports them.
const (
	StatusWaiting    Status = "waiting"
	StatusConverting Status = "converting"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// StatusHandler receives status changes. It is called synchronously from
// Convert and must not block.
type StatusHandler func(Status)

// Input contains conversion parameters.
type Input struct {
	HTML    string // Raw HTML document (exclusive with Path)
	Path    string // Local HTML file (exclusive with HTML)
	BaseURL string // Overrides the converter and document base URL (optional)
	Render  bool   // Load Path in headless Chrome before conversion
}

// Validate checks that exactly one source is given and that Render is only
// requested for files.
func (in Input) Validate() error {
	hasHTML := strings.TrimSpace(in.HTML) != ""
	hasPath := in.Path != ""

	switch {
	case hasHTML && hasPath:
		return fmt.Errorf("%w: HTML and Path are mutually exclusive", ErrInvalidInput)
	case !hasHTML && !hasPath:
		return ErrEmptyHTML
	case in.Render && !hasPath:
		return fmt.Errorf("%w: Render requires Path", ErrInvalidInput)
	}

	if in.BaseURL != "" {
		if _, err := parseBaseURL(in.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// ConvertResult contains the Markdown produced by a conversion.
type ConvertResult struct {
	Markdown    string  // Title heading followed by the rendered article
	Title       string  // Trimmed title text, "" when no title was found
	Filename    string  // Safe output file name derived from Title
	Summary     Summary // Constructs a GFM parser recognizes in Markdown
	PreviewHTML []byte  // Standalone HTML preview, nil unless enabled
}

// Summary counts the constructs a GFM Markdown parser recognizes in the
// converted output.
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

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	selectors    Selectors
	baseURL      string
	cellLinks    CellLinkMode
	codeLanguage CodeLanguageMode
	alignTables  bool
	preview      bool
	timeout      time.Duration
	logger       logrus.FieldLogger
	onStatus     StatusHandler
}

// DefaultTimeout bounds browser rendering when WithTimeout is not set.
const DefaultTimeout = 30 * time.Second

// WithTimeout sets the browser rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("html2md: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithSelectors sets the CSS selectors locating the article and its title.
// Empty fields keep their defaults.
func WithSelectors(s Selectors) Option {
	return func(c *Converter) {
		if s.Article != "" {
			c.cfg.selectors.Article = s.Article
		}
		if s.Title != "" {
			c.cfg.selectors.Title = s.Title
		}
	}
}

// WithBaseURL sets the URL relative href and src attributes resolve against.
func WithBaseURL(u string) Option {
	return func(c *Converter) {
		c.cfg.baseURL = u
	}
}

// WithCellLinks sets how anchors inside table cells are rendered.
func WithCellLinks(m CellLinkMode) Option {
	return func(c *Converter) {
		c.cfg.cellLinks = m
	}
}

// WithCodeLanguage sets how fenced code blocks are labeled.
func WithCodeLanguage(m CodeLanguageMode) Option {
	return func(c *Converter) {
		c.cfg.codeLanguage = m
	}
}

// WithAlignedTables pads table cells to a common width per column.
func WithAlignedTables(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.alignTables = enabled
	}
}

// WithPreview enables HTML preview rendering of the produced Markdown.
func WithPreview(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.preview = enabled
	}
}

// WithLogger sets the logger for diagnostic output. Nil is ignored.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithStatusHandler registers a function notified of status changes.
func WithStatusHandler(h StatusHandler) Option {
	return func(c *Converter) {
		c.cfg.onStatus = h
	}
}

// parseBaseURL parses an absolute base URL.
func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidBaseURL, raw)
	}
	return u, nil
}
