package dom

import "strings"

// Predicate decides whether a node matches.
type Predicate func(Node) bool

// Closest returns the nearest node, starting with n itself and walking up
// through its ancestors, that is an element matching pred. It returns nil
// when nothing matches.
func Closest(n Node, pred Predicate) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if IsElement(cur) && pred(cur) {
			return cur
		}
	}
	return nil
}

// First returns the first descendant element of n, in document order,
// matching pred. n itself is not considered.
func First(n Node, pred Predicate) Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children() {
		if IsElement(c) && pred(c) {
			return c
		}
		if found := First(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// All returns every descendant element of n matching pred, in document order.
func All(n Node, pred Predicate) []Node {
	var out []Node
	walk(n, func(c Node) {
		if pred(c) {
			out = append(out, c)
		}
	})
	return out
}

func walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children() {
		if IsElement(c) {
			visit(c)
		}
		walk(c, visit)
	}
}

// Tag matches elements with the given tag name, case-insensitively.
func Tag(name string) Predicate {
	name = strings.ToLower(name)
	return func(n Node) bool { return n.Tag() == name }
}

// HasAttr matches elements carrying the attribute, whatever its value.
func HasAttr(key string) Predicate {
	return func(n Node) bool {
		_, ok := n.Attr(key)
		return ok
	}
}

// AttrEquals matches [key="val"].
func AttrEquals(key, val string) Predicate {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && v == val
	}
}

// AttrPrefix matches [key^="prefix"]. An empty prefix never matches.
func AttrPrefix(key, prefix string) Predicate {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && prefix != "" && strings.HasPrefix(v, prefix)
	}
}

// AttrContains matches [key*="sub"]. An empty substring never matches.
func AttrContains(key, sub string) Predicate {
	return func(n Node) bool {
		v, ok := n.Attr(key)
		return ok && sub != "" && strings.Contains(v, sub)
	}
}

// HasClass matches elements whose class list contains class.
func HasClass(class string) Predicate {
	return func(n Node) bool {
		v, ok := n.Attr("class")
		if !ok || class == "" {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(n Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}
