package mdparse

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	gast "github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
)

// builder converts a goldmark tree over preprocessed source into the
// typed document tree, splicing extracted math and citation nodes back
// in wherever their placeholder tokens appear.
type builder struct {
	src      []byte
	ph       [][]ast.Node
	warnings []diag.Warning
}

// build assembles the top-level node list. Headings open sections: a
// heading of level N nests under the most recent open section of a
// lower level, and closes every open section at level N or deeper.
func build(doc gast.Node, src []byte, ex *extraction) ([]ast.Node, []diag.Warning) {
	b := &builder{src: src, ph: ex.nodes}

	top := []ast.Node{}
	var stack []*ast.Section
	appendNode := func(n ast.Node) {
		if len(stack) > 0 {
			s := stack[len(stack)-1]
			s.Children = append(s.Children, n)
			return
		}
		top = append(top, n)
	}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if h, ok := c.(*gast.Heading); ok {
			sec := b.section(h)
			for len(stack) > 0 && stack[len(stack)-1].Level >= sec.Level {
				stack = stack[:len(stack)-1]
			}
			appendNode(sec)
			stack = append(stack, sec)
			continue
		}
		for _, n := range b.block(c) {
			appendNode(n)
		}
	}

	b.checkEmptySections(top)
	return top, b.warnings
}

func (b *builder) warn(code diag.Code, msg, suggestion string) {
	b.warnings = append(b.warnings, diag.Warning{Code: code, Message: msg, Suggestion: suggestion})
}

func (b *builder) section(h *gast.Heading) *ast.Section {
	sec := &ast.Section{
		Level: h.Level,
		Title: inlineText(b.inlines(h)),
	}
	if v, ok := h.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			sec.ID = string(id)
		}
	}
	sec.Children = []ast.Node{}
	return sec
}

// block converts one goldmark block node into zero or more tree nodes.
// Containers the model has no variant for (lists, blockquotes) flatten
// into their converted children in order.
func (b *builder) block(n gast.Node) []ast.Node {
	switch t := n.(type) {
	case *gast.Paragraph:
		return []ast.Node{b.classify(b.inlines(t))}

	case *gast.TextBlock:
		return []ast.Node{b.classify(b.inlines(t))}

	case *gast.FencedCodeBlock:
		lang := string(t.Language(b.src))
		literal := b.blockLines(t)
		if lang == "math" {
			return []ast.Node{&ast.Math{Mode: ast.MathDisplay, Expr: strings.TrimSpace(literal)}}
		}
		if lang != "" && lexers.Get(lang) == nil {
			b.warn(diag.WarnUnknownLanguage,
				"unknown code block language "+strconv.Quote(lang),
				"use a recognized language identifier or drop it")
		}
		return []ast.Node{&ast.CodeBlock{Lang: lang, Literal: literal}}

	case *gast.CodeBlock:
		return []ast.Node{&ast.CodeBlock{Literal: b.blockLines(t)}}

	case *extast.Table:
		return []ast.Node{b.table(t)}

	case *gast.List:
		var out []ast.Node
		for item := t.FirstChild(); item != nil; item = item.NextSibling() {
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				out = append(out, b.block(c)...)
			}
		}
		return out

	case *gast.Blockquote:
		var out []ast.Node
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, b.block(c)...)
		}
		return out

	case *gast.Heading:
		// Headings nested inside containers cannot open sections.
		return []ast.Node{&ast.Paragraph{Children: demoteFigures(b.inlines(t))}}

	case *gast.ThematicBreak, *gast.HTMLBlock:
		return nil
	}
	return nil
}

// classify decides what an inline run really is: a lone display math
// expression or image stands alone as its block form, a run of nothing
// but citation references collapses into a citation block, anything
// else stays a paragraph.
func (b *builder) classify(children []ast.Node) ast.Node {
	sig := significant(children)
	if len(sig) == 1 {
		switch n := sig[0].(type) {
		case *ast.Math:
			if n.Mode == ast.MathDisplay {
				return n
			}
		case *ast.Figure:
			return n
		}
	}
	if len(sig) > 0 {
		keys := make([]string, 0, len(sig))
		for _, n := range sig {
			ref, ok := n.(*ast.CitationRef)
			if !ok {
				keys = nil
				break
			}
			keys = append(keys, ref.Key)
		}
		if keys != nil {
			return &ast.Citation{Keys: keys}
		}
	}
	return &ast.Paragraph{Children: demoteFigures(children)}
}

// significant filters out whitespace-only text runs.
func significant(nodes []ast.Node) []ast.Node {
	var out []ast.Node
	for _, n := range nodes {
		if t, ok := n.(*ast.Text); ok && strings.TrimSpace(t.Literal) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// demoteFigures rewrites images that share a paragraph with other
// content into links, keeping their target reachable for validation.
func demoteFigures(nodes []ast.Node) []ast.Node {
	for i, n := range nodes {
		if f, ok := n.(*ast.Figure); ok {
			nodes[i] = &ast.Link{
				Target:   f.Target,
				Title:    f.Caption,
				Children: []ast.Node{&ast.Text{Literal: f.Alt}},
			}
		}
	}
	return nodes
}

// inlines converts the inline children of a goldmark block.
func (b *builder) inlines(parent gast.Node) []ast.Node {
	var out []ast.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, b.inline(c)...)
	}
	return out
}

func (b *builder) inline(n gast.Node) []ast.Node {
	switch t := n.(type) {
	case *gast.Text:
		nodes := b.resolveText(string(t.Segment.Value(b.src)))
		if t.SoftLineBreak() || t.HardLineBreak() {
			nodes = append(nodes, &ast.Text{Literal: "\n"})
		}
		return nodes

	case *gast.String:
		return b.resolveText(string(t.Value))

	case *gast.Emphasis:
		children := b.inlines(t)
		if t.Level >= 2 {
			return []ast.Node{&ast.Strong{Children: children}}
		}
		return []ast.Node{&ast.Emphasis{Children: children}}

	case *gast.CodeSpan:
		return []ast.Node{&ast.CodeSpan{Literal: b.spanText(t)}}

	case *gast.Link:
		return []ast.Node{&ast.Link{
			Target:   string(t.Destination),
			Title:    string(t.Title),
			Children: b.inlines(t),
		}}

	case *gast.AutoLink:
		url := string(t.URL(b.src))
		label := string(t.Label(b.src))
		if t.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		return []ast.Node{&ast.Link{
			Target:   url,
			Children: []ast.Node{&ast.Text{Literal: label}},
		}}

	case *gast.Image:
		fig := &ast.Figure{
			Alt:    inlineText(b.inlines(t)),
			Target: string(t.Destination),
		}
		if len(t.Title) > 0 {
			fig.Caption = string(t.Title)
		} else {
			fig.Caption = fig.Alt
		}
		return []ast.Node{fig}

	case *gast.RawHTML:
		return nil
	}

	// Unmodeled inline wrappers, strikethrough among them, flatten
	// into their children.
	if n.HasChildren() {
		return b.inlines(n)
	}
	return nil
}

// resolveText splits literal text around placeholder tokens and splices
// the extracted nodes back in.
func (b *builder) resolveText(s string) []ast.Node {
	if !strings.ContainsRune(s, phOpen) {
		if s == "" {
			return nil
		}
		return []ast.Node{&ast.Text{Literal: s}}
	}

	var out []ast.Node
	text := func(lit string) {
		if lit != "" {
			out = append(out, &ast.Text{Literal: lit})
		}
	}

	rest := s
	for {
		open := strings.IndexRune(rest, phOpen)
		if open < 0 {
			break
		}
		tail := rest[open:]
		closeIdx := strings.IndexRune(tail, phClose)
		if closeIdx < 0 {
			break
		}
		idx, err := strconv.Atoi(tail[phRuneLen:closeIdx])
		if err != nil || idx < 0 || idx >= len(b.ph) {
			// Not a token of ours; keep the sentinel literal and move on.
			text(rest[:open+phRuneLen])
			rest = rest[open+phRuneLen:]
			continue
		}
		text(rest[:open])
		out = append(out, b.ph[idx]...)
		rest = rest[open:][closeIdx+phRuneLen:]
	}
	text(rest)
	return out
}

// phRuneLen is the UTF-8 width of the placeholder sentinels.
const phRuneLen = 3

// spanText flattens the text segments of an inline code span.
func (b *builder) spanText(n gast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			sb.Write(t.Segment.Value(b.src))
		case *gast.String:
			sb.Write(t.Value)
		}
	}
	return sb.String()
}

// blockLines joins the source lines covered by a code block.
func (b *builder) blockLines(n gast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

// table converts a pipe table, warning when a body row does not match
// the header width.
func (b *builder) table(t *extast.Table) *ast.Table {
	tbl := &ast.Table{Rows: [][]string{}}
	warned := false
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *extast.TableHeader:
			tbl.Header = b.tableCells(row)
		case *extast.TableRow:
			cells := b.tableCells(row)
			if !warned && tbl.Header != nil && len(cells) != len(tbl.Header) {
				b.warn(diag.WarnMalformedTable,
					"table row has "+strconv.Itoa(len(cells))+" cells, header has "+strconv.Itoa(len(tbl.Header)),
					"give every row the same number of cells as the header")
				warned = true
			}
			tbl.Rows = append(tbl.Rows, cells)
		}
	}
	return tbl
}

func (b *builder) tableCells(row gast.Node) []string {
	cells := []string{}
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if cell, ok := c.(*extast.TableCell); ok {
			cells = append(cells, strings.TrimSpace(inlineText(b.inlines(cell))))
		}
	}
	return cells
}

// checkEmptySections warns once per section that holds no content and
// no subsections.
func (b *builder) checkEmptySections(top []ast.Node) {
	for _, n := range top {
		_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if sec, ok := n.(*ast.Section); ok && len(sec.Children) == 0 {
				b.warn(diag.WarnEmptySection,
					"section "+strconv.Quote(sec.Title)+" has no content",
					"add content or remove the heading")
			}
			return ast.WalkContinue, nil
		})
	}
}

// inlineText flattens inline nodes to plain text for titles, captions,
// and table cells. Math keeps its delimiters, citations their @ form.
func inlineText(nodes []ast.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch t := n.(type) {
		case *ast.Text:
			sb.WriteString(t.Literal)
		case *ast.CodeSpan:
			sb.WriteString(t.Literal)
		case *ast.Math:
			if t.Mode == ast.MathDisplay {
				sb.WriteString("$$" + t.Expr + "$$")
			} else {
				sb.WriteString("$" + t.Expr + "$")
			}
		case *ast.CitationRef:
			sb.WriteString("@" + t.Key)
		case *ast.Emphasis:
			sb.WriteString(inlineText(t.Children))
		case *ast.Strong:
			sb.WriteString(inlineText(t.Children))
		case *ast.Link:
			sb.WriteString(inlineText(t.Children))
		case *ast.Figure:
			sb.WriteString(t.Alt)
		}
	}
	return sb.String()
}
