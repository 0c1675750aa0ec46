package html2md

import "strings"

// Node is a read-only document tree node: either *Text or *Element.
type Node interface {
	// TextContent returns the concatenated text of the node and all its
	// descendants, in document order.
	TextContent() string

	node()
}

// Text is a leaf holding literal character data.
type Text struct {
	Content string
}

// NewText creates a text node.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// TextContent returns the literal content.
func (t *Text) TextContent() string { return t.Content }

func (*Text) node() {}

// Element is a tagged node with attributes and ordered children.
// Tag is always lowercase.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// NewElement creates an element, lowercasing tag. A nil attrs map is allowed.
func NewElement(tag string, attrs map[string]string, children ...Node) *Element {
	return &Element{
		Tag:      strings.ToLower(tag),
		Attrs:    attrs,
		Children: children,
	}
}

// Attr returns the attribute value and whether the attribute is present.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// TextContent returns the flattened text of all descendants.
func (e *Element) TextContent() string {
	var sb strings.Builder
	writeText(&sb, e)
	return sb.String()
}

func (*Element) node() {}

// ChildElements returns the element children with the given tag, in order.
func (e *Element) ChildElements(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Tag == tag {
			out = append(out, el)
		}
	}
	return out
}

func writeText(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Content)
	case *Element:
		for _, c := range v.Children {
			writeText(sb, c)
		}
	}
}
