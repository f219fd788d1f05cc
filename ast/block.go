package ast

import "encoding/json"

// MathMode distinguishes inline from display math.
type MathMode string

const (
	MathInline  MathMode = "inline"
	MathDisplay MathMode = "display"
)

// Section is a heading plus everything nested beneath it. Level is
// 1-based. ID is the anchor slug derived from the title at parse time.
type Section struct {
	Level    int    `json:"level"`
	Title    string `json:"title"`
	ID       string `json:"id,omitempty"`
	Children []Node `json:"children"`
}

func (n *Section) Kind() Kind       { return KindSection }
func (n *Section) children() []Node { return n.Children }

// Paragraph holds a run of inline content.
type Paragraph struct {
	Children []Node `json:"children"`
}

func (n *Paragraph) Kind() Kind       { return KindParagraph }
func (n *Paragraph) children() []Node { return n.Children }

// Math is a LaTeX-style math expression. Display math stands alone as a
// block; inline math nests inside paragraph content with Mode set
// accordingly. Expr carries the expression without its delimiters.
type Math struct {
	Mode MathMode `json:"mode"`
	Expr string   `json:"expr"`
}

func (n *Math) Kind() Kind       { return KindMath }
func (n *Math) children() []Node { return nil }

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Lang    string `json:"lang,omitempty"`
	Literal string `json:"literal"`
}

func (n *CodeBlock) Kind() Kind       { return KindCodeBlock }
func (n *CodeBlock) children() []Node { return nil }

// Figure is an image standing alone as a block, promoted from an
// image-only paragraph. Caption comes from the image title when present,
// otherwise from the alt text.
type Figure struct {
	Alt     string `json:"alt"`
	Target  string `json:"target"`
	Caption string `json:"caption,omitempty"`
}

func (n *Figure) Kind() Kind       { return KindFigure }
func (n *Figure) children() []Node { return nil }

// Table is a pipe table with one header row. Cells hold their plain
// text content.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (n *Table) Kind() Kind       { return KindTable }
func (n *Table) children() []Node { return nil }

// Citation is a block-level citation placeholder: a paragraph consisting
// solely of citation references collapses into one, marking where a
// renderer emits the formatted citation group.
type Citation struct {
	Keys []string `json:"keys"`
}

func (n *Citation) Kind() Kind       { return KindCitation }
func (n *Citation) children() []Node { return nil }

func (n *Section) MarshalJSON() ([]byte, error) {
	type alias Section
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Math) MarshalJSON() ([]byte, error) {
	type alias Math
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *CodeBlock) MarshalJSON() ([]byte, error) {
	type alias CodeBlock
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Figure) MarshalJSON() ([]byte, error) {
	type alias Figure
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}

func (n *Citation) MarshalJSON() ([]byte, error) {
	type alias Citation
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{n.Kind(), (*alias)(n)})
}
