// Package dom provides a small, engine-independent view of a document tree
// and the search helpers the extractor needs: nearest matching ancestor,
// first or all matching descendants, and flattened text content.
package dom

import "strings"

// Node is the minimal read-only view of a document node.
//
// Element nodes report a lower-case tag name. Text nodes report an empty
// tag and return their character data from Text.
type Node interface {
	Tag() string
	Attr(key string) (string, bool)
	// Text returns the concatenated character data of the node and all of
	// its descendants, like the DOM textContent property.
	Text() string
	Children() []Node
	Parent() Node
}

// IsElement reports whether n is a non-nil element node.
func IsElement(n Node) bool {
	return n != nil && n.Tag() != ""
}

// Element is an in-memory element. It is useful for building trees by hand
// or for adapting engines that are not backed by golang.org/x/net/html.
// A nil *Element behaves like a detached node with no tag and no children.
type Element struct {
	Name     string
	Attrs    map[string]string
	parent   Node
	children []Node
}

// NewElement creates an element and adopts the given children.
func NewElement(name string, attrs map[string]string, children ...Node) *Element {
	e := &Element{Name: strings.ToLower(name), Attrs: attrs}
	for _, c := range children {
		e.Append(c)
	}
	return e
}

// Append adds child as the last child of e.
func (e *Element) Append(child Node) {
	switch c := child.(type) {
	case *Element:
		c.parent = e
	case *TextNode:
		c.parent = e
	}
	e.children = append(e.children, child)
}

func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.Name
}

func (e *Element) Attr(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.Attrs[key]
	return v, ok
}

func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func (e *Element) Children() []Node {
	if e == nil {
		return nil
	}
	return e.children
}

func (e *Element) Parent() Node {
	if e == nil {
		return nil
	}
	return e.parent
}

// TextNode is an in-memory text node.
type TextNode struct {
	Data   string
	parent Node
}

// NewText creates a detached text node.
func NewText(data string) *TextNode { return &TextNode{Data: data} }

func (t *TextNode) Tag() string                { return "" }
func (t *TextNode) Attr(string) (string, bool) { return "", false }
func (t *TextNode) Text() string               { return t.Data }
func (t *TextNode) Children() []Node           { return nil }
func (t *TextNode) Parent() Node               { return t.parent }
