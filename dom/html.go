package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// htmlNode adapts a golang.org/x/net/html node to Node.
type htmlNode struct {
	n *html.Node
}

// FromHTML wraps a parsed x/net/html node. It returns nil for a nil node.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

// FromDocument returns the root of a goquery document.
func FromDocument(doc *goquery.Document) Node {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil
	}
	return FromHTML(doc.Nodes[0])
}

// Parse reads an HTML document and returns its root node.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}
	return FromDocument(doc), nil
}

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(h.n.Data)
}

func (h htmlNode) Attr(key string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) Text() string {
	if h.n.Type == html.TextNode {
		return h.n.Data
	}
	var b strings.Builder
	collectText(&b, h.n)
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode, html.DocumentNode:
			collectText(b, c)
		}
	}
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.TextNode:
			out = append(out, htmlNode{n: c})
		}
	}
	return out
}

func (h htmlNode) Parent() Node {
	if h.n.Parent == nil {
		return nil
	}
	return htmlNode{n: h.n.Parent}
}
