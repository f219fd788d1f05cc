// Package ast defines the typed document tree produced by parsing:
// a Document root owning front matter metadata and a hierarchy of block
// and inline nodes, each tagged by a stable Kind discriminator.
//
// The tree is built once per parse and treated as read-only by every
// downstream consumer. Ownership is strictly hierarchical: a node belongs
// to exactly one parent and the tree is acyclic.
package ast

// Kind discriminates node variants. Its values double as the `type` tag
// in the JSON form of the tree.
type Kind string

// Block node kinds.
const (
	KindSection   Kind = "section"
	KindParagraph Kind = "paragraph"
	KindMath      Kind = "math"
	KindCodeBlock Kind = "codeBlock"
	KindFigure    Kind = "figure"
	KindTable     Kind = "table"
	KindCitation  Kind = "citation"
)

// Inline node kinds.
const (
	KindText        Kind = "text"
	KindEmphasis    Kind = "emphasis"
	KindStrong      Kind = "strong"
	KindCodeSpan    Kind = "code"
	KindLink        Kind = "link"
	KindCitationRef Kind = "citationReference"
)

// Node is the closed interface over all tree node variants. Only types in
// this package implement it; consumers switch on Kind or on the concrete
// type and can rely on exhaustive coverage.
type Node interface {
	Kind() Kind
	children() []Node
}

// Document is the tree root, owning the extracted front matter and the
// top-level block nodes.
type Document struct {
	Frontmatter Metadata `json:"frontmatter"`
	Children    []Node   `json:"children"`
}

// WalkStatus controls traversal from a Walker callback.
type WalkStatus int

const (
	// WalkContinue descends into children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren continues with the next sibling.
	WalkSkipChildren
	// WalkStop aborts the traversal.
	WalkStop
)

// Walker is invoked twice per node, entering and leaving. Returning
// WalkSkipChildren from the entering call skips the node's subtree.
type Walker func(n Node, entering bool) (WalkStatus, error)

// Walk traverses the subtree rooted at n depth-first in document order.
func Walk(n Node, w Walker) error {
	_, err := walk(n, w)
	return err
}

// Walk traverses every top-level node of the document in order.
func (d *Document) Walk(w Walker) error {
	for _, c := range d.Children {
		status, err := walk(c, w)
		if err != nil {
			return err
		}
		if status == WalkStop {
			return nil
		}
	}
	return nil
}

func walk(n Node, w Walker) (WalkStatus, error) {
	status, err := w(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		for _, c := range n.children() {
			st, err := walk(c, w)
			if err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	status, err = w(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}
