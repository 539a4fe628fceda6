package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is one element of the generic attributed tree the model builder
// consumes. It carries no SVD semantics of its own.
type Node struct {
	// Tag is the element name.
	Tag string

	// Attrs holds the element attributes.
	Attrs map[string]string

	// Text is the element's own character data, whitespace-trimmed.
	Text string

	// Children are the child elements in document order.
	Children []*Node
}

// ParseTree reads an XML document from r and returns its root element as a
// generic node tree.
func ParseTree(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing XML: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parsing XML: unterminated element <%s>", stack[len(stack)-1].Tag)
	}
	return root, nil
}

// Find returns the first child matching any of the given tag aliases.
// Aliases are tried in preference order: all children are scanned for the
// first alias before the second alias is considered. Returns nil when no
// child matches.
func (n *Node) Find(aliases ...string) *Node {
	for _, alias := range aliases {
		for _, c := range n.Children {
			if c.Tag == alias {
				return c
			}
		}
	}
	return nil
}

// FindAll returns all children with the given tag, in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the text of the first child matching any alias, or ""
// when no child matches. It never fails.
func (n *Node) ChildText(aliases ...string) string {
	c := n.Find(aliases...)
	if c == nil {
		return ""
	}
	return c.Text
}

// Has reports whether a child matching any of the aliases exists.
func (n *Node) Has(aliases ...string) bool {
	return n.Find(aliases...) != nil
}

// ParseUint parses an SVD integer literal: hexadecimal (0x/0X), binary
// (0b/0B), leading-zero octal, or plain decimal, optionally carrying
// C-style unsigned/long suffixes (U, L) which are stripped first.
func ParseUint(text string) (uint64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("empty integer text")
	}
	s = strings.TrimRight(s, "uUlL")
	if s == "" {
		return 0, fmt.Errorf("integer text %q has no digits", text)
	}
	// Base 0 handles the 0x/0b prefixes and the leading-zero octal convention.
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer text %q", text)
	}
	return v, nil
}
