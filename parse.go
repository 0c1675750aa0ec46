package html2md

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// documentTag is the tag given to the synthetic element wrapping a parsed
// document. No renderer rule matches it, so it behaves as a transparent container.
const documentTag = "#document"

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// ParseHTML parses a complete HTML document from r.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseHTML, err)
	}
	return &Document{root: root}, nil
}

// ParseHTMLString parses a complete HTML document from a string.
func ParseHTMLString(s string) (*Document, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyHTML
	}
	return ParseHTML(strings.NewReader(s))
}

// Root returns the whole document as a tree.
func (d *Document) Root() Node {
	return FromHTML(d.root)
}

// BaseHref returns the href of the first <base> element, or "".
func (d *Document) BaseHref() string {
	var find func(n *html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "base" {
			if href, ok := htmlAttr(n, "href"); ok && href != "" {
				return href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if href := find(c); href != "" {
				return href
			}
		}
		return ""
	}
	return find(d.root)
}

// FromHTML adapts a parser node into the document model. Comments, doctypes
// and raw nodes are dropped. It returns nil for nil or dropped nodes.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case html.TextNode:
		return NewText(n.Data)
	case html.ElementNode, html.DocumentNode:
		tag := n.Data
		if n.Type == html.DocumentNode {
			tag = documentTag
		}
		var attrs map[string]string
		if len(n.Attr) > 0 {
			attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				// The first of duplicate attributes wins, as in the DOM.
				key := strings.ToLower(a.Key)
				if _, dup := attrs[key]; !dup {
					attrs[key] = a.Val
				}
			}
		}
		el := NewElement(tag, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := FromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}

// htmlAttr returns the named attribute of a parser node.
func htmlAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
