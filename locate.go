package html2md

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Default selectors match the editor markup of the knowledge base the tool
// was first written for.
const (
	DefaultArticleSelector = ".editor__body-content .tiptap.ProseMirror"
	DefaultTitleSelector   = ".editor-title__text"
)

// Selectors names the CSS selectors used to find the article root and title.
// An empty Title disables title lookup.
type Selectors struct {
	Article string
	Title   string
}

// DefaultSelectors returns the built-in selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Article: DefaultArticleSelector,
		Title:   DefaultTitleSelector,
	}
}

// Validate checks that both selectors compile.
func (s Selectors) Validate() error {
	_, err := s.compile()
	return err
}

type compiledSelectors struct {
	article cascadia.SelectorGroup
	title   cascadia.SelectorGroup
}

func (s Selectors) compile() (*compiledSelectors, error) {
	if strings.TrimSpace(s.Article) == "" {
		return nil, fmt.Errorf("%w: article selector cannot be empty", ErrInvalidSelector)
	}
	article, err := cascadia.ParseGroup(s.Article)
	if err != nil {
		return nil, fmt.Errorf("%w: article %q: %v", ErrInvalidSelector, s.Article, err)
	}

	c := &compiledSelectors{article: article}
	if strings.TrimSpace(s.Title) != "" {
		title, err := cascadia.ParseGroup(s.Title)
		if err != nil {
			return nil, fmt.Errorf("%w: title %q: %v", ErrInvalidSelector, s.Title, err)
		}
		c.title = title
	}
	return c, nil
}

// Located holds the nodes found in a document. Title is nil when absent.
type Located struct {
	Article Node
	Title   Node
}

// Locate finds the first article and title matches in doc.
// It fails with ErrNotFound when the article selector matches nothing.
func Locate(doc *Document, sel Selectors) (*Located, error) {
	c, err := sel.compile()
	if err != nil {
		return nil, err
	}
	return c.locate(doc)
}

func (c *compiledSelectors) locate(doc *Document) (*Located, error) {
	article := query(doc.root, c.article)
	if article == nil {
		return nil, ErrNotFound
	}

	loc := &Located{Article: FromHTML(article)}
	if c.title != nil {
		loc.Title = FromHTML(query(doc.root, c.title))
	}
	return loc, nil
}

func query(root *html.Node, m cascadia.Matcher) *html.Node {
	if m == nil || root == nil {
		return nil
	}
	return cascadia.Query(root, m)
}
