package html2md

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/alnah/go-html2md/internal/pipeline"
)

// Renderer converts document trees to Markdown.
// The zero value renders with the default rules: raw URLs, verbatim table
// cell links, bare code fences and compact tables.
type Renderer struct {
	// BaseURL resolves relative href and src attributes. Nil keeps them raw.
	BaseURL *url.URL

	// CellLinks selects how anchors inside table cells are rendered.
	CellLinks CellLinkMode

	// CodeLanguage selects how fenced code blocks are labeled.
	CodeLanguage CodeLanguageMode

	// AlignTables pads table cells to a common display width per column.
	AlignTables bool
}

// Render converts n to Markdown using the default rules.
func Render(n Node) string {
	return (&Renderer{}).Render(n)
}

// ConvertTree renders an article with an optional title heading using the
// default rules. It fails with ErrNotFound when article is nil.
func ConvertTree(article, title Node) (string, error) {
	return (&Renderer{}).Convert(article, title)
}

// Convert renders the article, preceded by a level-one heading with the
// trimmed title text when title is not nil.
func (r *Renderer) Convert(article, title Node) (string, error) {
	if article == nil {
		return "", ErrNotFound
	}

	var sb strings.Builder
	if title != nil {
		sb.WriteString("# ")
		sb.WriteString(trimSpace(title.TextContent()))
		sb.WriteString("\n\n")
	}
	r.render(&sb, article)
	return sb.String(), nil
}

// Render converts n to Markdown.
func (r *Renderer) Render(n Node) string {
	var sb strings.Builder
	r.render(&sb, n)
	return sb.String()
}

func (r *Renderer) render(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Content)
	case *Element:
		r.renderElement(sb, v)
	}
}

func (r *Renderer) renderChildren(sb *strings.Builder, e *Element) {
	for _, c := range e.Children {
		r.render(sb, c)
	}
}

func (r *Renderer) renderElement(sb *strings.Builder, e *Element) {
	switch e.Tag {
	case "h1", "h2", "h3":
		sb.WriteString(strings.Repeat("#", int(e.Tag[1]-'0')))
		sb.WriteByte(' ')
		r.renderChildren(sb, e)
		sb.WriteString("\n\n")

	case "p":
		r.renderChildren(sb, e)
		sb.WriteString("\n\n")

	case "ul":
		for _, li := range e.ChildElements("li") {
			sb.WriteString("* ")
			r.renderChildren(sb, li)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')

	case "ol":
		// Numbering comes from position only; start and value attributes are ignored.
		for i, li := range e.ChildElements("li") {
			sb.WriteString(strconv.Itoa(i + 1))
			sb.WriteString(". ")
			r.renderChildren(sb, li)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')

	case "img":
		alt, _ := e.Attr("alt")
		sb.WriteString("![")
		sb.WriteString(alt)
		sb.WriteString("](")
		sb.WriteString(r.resolveAttr(e, "src"))
		sb.WriteString(")\n\n")

	case "a":
		sb.WriteString(r.renderLink(e))

	case "code":
		sb.WriteByte('`')
		sb.WriteString(e.TextContent())
		sb.WriteByte('`')

	case "pre":
		code := e.TextContent()
		sb.WriteString("```")
		sb.WriteString(r.codeLanguage(e, code))
		sb.WriteByte('\n')
		sb.WriteString(code)
		sb.WriteString("\n```\n\n")

	case "table":
		sb.WriteString(r.renderTable(e))
		sb.WriteString("\n\n")

	default:
		r.renderChildren(sb, e)
	}
}

// codeLanguage returns the fence label for a pre block, or "" when labeling
// is off or nothing is known about the language.
func (r *Renderer) codeLanguage(pre *Element, code string) string {
	if r.CodeLanguage == "" || r.CodeLanguage == CodeLanguageNone {
		return ""
	}

	classes := make([]string, 0, 2)
	if v, ok := pre.Attr("class"); ok {
		classes = append(classes, v)
	}
	if inner := pre.ChildElements("code"); len(inner) > 0 {
		if v, ok := inner[0].Attr("class"); ok {
			classes = append(classes, v)
		}
	}

	if lang := pipeline.ClassLanguage(classes...); lang != "" {
		return lang
	}
	if r.CodeLanguage == CodeLanguageDetect {
		return pipeline.DetectLanguage(code)
	}
	return ""
}
