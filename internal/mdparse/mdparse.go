// Package mdparse turns markdown source into the typed document tree.
//
// Parsing is two-phase. A pre-parse scan extracts math expressions and
// citation references, which markdown syntax does not know about, and
// replaces them with placeholder tokens. goldmark then parses the result
// and the builder converts its AST back into ast nodes, splicing the
// extracted nodes in where their tokens appear.
//
// Parsing never rejects content. Constructs the document model has no
// variant for degrade to their nearest representable form, and anything
// suspicious surfaces as a warning rather than an error.
package mdparse

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
	"github.com/alnah/go-docmodel/internal/frontmatter"
)

// Parser converts markdown bodies into document trees. Safe for
// concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New creates a Parser with GFM extensions and heading anchor IDs.
func New() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading slugs become section IDs
		),
	)
	return &Parser{md: md}
}

// Parse converts a markdown body, front matter already removed, into
// top-level block nodes plus advisory warnings.
func (p *Parser) Parse(body string) ([]ast.Node, []diag.Warning) {
	ex := extract(body)
	src := []byte(ex.body)
	root := p.md.Parser().Parse(text.NewReader(src))
	nodes, warns := build(root, src, ex)
	return nodes, append(ex.warnings, warns...)
}

// ParseComplete splits front matter off the source and parses the rest
// into a complete document. goldmark has no context support, so
// cancellation races the parse against ctx.
func (p *Parser) ParseComplete(ctx context.Context, source string) (*ast.Document, []diag.Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	type result struct {
		doc   *ast.Document
		warns []diag.Warning
	}

	done := make(chan result, 1)

	go func() {
		md, body, _ := frontmatter.Split(source)
		nodes, warns := p.Parse(body)
		done <- result{doc: &ast.Document{Frontmatter: md, Children: nodes}, warns: warns}
	}()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case r := <-done:
		return r.doc, r.warns, nil
	}
}

// Validate parses the source and reports only its warnings. Content
// never produces errors at this layer.
func (p *Parser) Validate(source string) []diag.Warning {
	_, body, _ := frontmatter.Split(source)
	_, warns := p.Parse(body)
	return warns
}
