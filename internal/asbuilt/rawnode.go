// SPDX-License-Identifier: Apache-2.0

package asbuilt

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// AttrPrefix marks attribute keys in a RawNode.
	AttrPrefix = "-"
	// TextKey holds the text content of an element that also has attributes or children.
	TextKey = "#text"
)

// RawNode is a parsed XML element: attribute keys carry AttrPrefix, child element
// names map to a subtree, a list of subtrees, or a plain string.
type RawNode map[string]any

// Many returns the children named name as an ordered sequence, whatever shape the
// parser gave them. Scalar children are lifted into a node holding only TextKey.
func (n RawNode) Many(name string) []RawNode {
	switch v := n[name].(type) {
	case nil:
		return nil
	case []any:
		out := make([]RawNode, 0, len(v))
		for _, item := range v {
			out = append(out, lift(item))
		}
		return out
	default:
		return []RawNode{lift(v)}
	}
}

// Child returns the first child named name.
func (n RawNode) Child(name string) (RawNode, bool) {
	children := n.Many(name)
	if len(children) == 0 {
		return nil, false
	}
	return children[0], true
}

// Attr returns the trimmed value of attribute name.
func (n RawNode) Attr(name string) (string, bool) {
	v, ok := n[AttrPrefix+name]
	if !ok {
		return "", false
	}
	return scalar(v), true
}

// Text returns the trimmed text content of the element.
func (n RawNode) Text() string {
	return scalar(n[TextKey])
}

// Elements returns the child element names in sorted order, skipping attributes
// and text.
func (n RawNode) Elements() []string {
	names := make([]string, 0, len(n))
	for k := range n {
		if k == TextKey || strings.HasPrefix(k, AttrPrefix) {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lift(v any) RawNode {
	switch t := v.(type) {
	case RawNode:
		return t
	case map[string]any:
		return RawNode(t)
	default:
		return RawNode{TextKey: scalar(t)}
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case RawNode:
		return t.Text()
	case map[string]any:
		return RawNode(t).Text()
	case []any:
		if len(t) == 0 {
			return ""
		}
		return scalar(t[0])
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
