package ast

import "encoding/json"

// Text is a literal text run.
type Text struct {
	Literal string `json:"literal"`
}

func (n *Text) Kind() Kind       { return KindText }
func (n *Text) children() []Node { return nil }

// Emphasis wraps inline content rendered with light emphasis.
type Emphasis struct {
	Children []Node `json:"children"`
}

func (n *Emphasis) Kind() Kind       { return KindEmphasis }
func (n *Emphasis) children() []Node { return n.Children }

// Strong wraps inline content rendered with strong emphasis.
type Strong struct {
	Children []Node `json:"children"`
}

func (n *Strong) Kind() Kind       { return KindStrong }
func (n *Strong) children() []Node { return n.Children }

// CodeSpan is an inline code fragment.
type CodeSpan struct {
	Literal string `json:"literal"`
}

func (n *CodeSpan) Kind() Kind       { return KindCodeSpan }
func (n *CodeSpan) children() []Node { return nil }

// Link is a hyperlink with inline content as its visible text.
type Link struct {
	Target   string `json:"target"`
	Title    string `json:"title,omitempty"`
	Children []Node `json:"children"`
}

func (n *Link) Kind() Kind       { return KindLink }
func (n *Link) children() []Node { return n.Children }

// CitationRef is an in-text reference to one bibliography entry by key.
type CitationRef struct {
	Key string `json:"key"`
}

func (n *CitationRef) Kind() Kind       { return KindCitationRef }
func (n *CitationRef) children() []Node { return nil }

func (n *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Emphasis) MarshalJSON() ([]byte, error) {
	type alias Emphasis
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Strong) MarshalJSON() ([]byte, error) {
	type alias Strong
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *CodeSpan) MarshalJSON() ([]byte, error) {
	type alias CodeSpan
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Link) MarshalJSON() ([]byte, error) {
	type alias Link
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *CitationRef) MarshalJSON() ([]byte, error) {
	type alias CitationRef
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}
