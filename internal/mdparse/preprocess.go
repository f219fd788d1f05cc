package mdparse

import (
	"strconv"
	"strings"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
)

// Placeholder sentinels bracket an extraction index inside body text.
// Private Use Area runes survive markdown parsing as plain text and
// cannot collide with meaningful document content.
const (
	phOpen  = '\uE000'
	phClose = '\uE001'
)

// extraction is the result of the pre-parse scan: body text with math
// and citation occurrences replaced by placeholder tokens, plus the
// nodes to splice back in at each index.
type extraction struct {
	body     string
	nodes    [][]ast.Node
	warnings []diag.Warning
}

// extract scans body text for math delimiters ($...$, $$...$$, \(...\),
// \[...\]) and citation references ([@key], [@a; @b], bare @key),
// replacing each with a placeholder token. Fenced code blocks, indented
// code blocks, and inline code spans are copied verbatim. The scan never
// fails; anything that does not terminate properly stays literal text.
func extract(body string) *extraction {
	ex := &extraction{}
	var out strings.Builder
	out.Grow(len(body) + 16)

	i := 0
	atLineStart := true
	lineStart := 0
	prevBlank := true
	inFence := false
	inIndented := false
	var fenceChar byte
	var fenceLen int

	for i < len(body) {
		if atLineStart {
			lineStart = i
			blank := blankLine(body, i)
			indented := strings.HasPrefix(body[i:], "    ") || strings.HasPrefix(body[i:], "\t")

			if inIndented && !indented && !blank {
				inIndented = false
			}
			if inIndented || (indented && prevBlank && !inFence) {
				inIndented = true
				i = copyLine(&out, body, i)
				prevBlank = blank
				continue
			}

			if ch, n, ok := fenceLine(body[i:]); ok {
				if !inFence {
					inFence = true
					fenceChar, fenceLen = ch, n
				} else if ch == fenceChar && n >= fenceLen {
					inFence = false
				}
				i = copyLine(&out, body, i)
				prevBlank = false
				continue
			}
			if inFence {
				i = copyLine(&out, body, i)
				prevBlank = blank
				continue
			}
			atLineStart = false
		}

		c := body[i]
		switch c {
		case '\n':
			out.WriteByte(c)
			prevBlank = strings.TrimSpace(body[lineStart:i]) == ""
			i++
			atLineStart = true

		case '`':
			i = copyCodeSpan(&out, body, i)

		case '\\':
			if j, ok := ex.tryBackslashMath(&out, body, i); ok {
				i = j
				continue
			}
			// Copy the escape pair atomically so \$ and \@ stay literal.
			if i+1 < len(body) {
				out.WriteString(body[i : i+2])
				i += 2
			} else {
				out.WriteByte(c)
				i++
			}

		case '$':
			if j, ok := ex.tryDollarMath(&out, body, i); ok {
				i = j
				continue
			}
			out.WriteByte(c)
			i++

		case '[':
			if j, ok := ex.tryCitationGroup(&out, body, i); ok {
				i = j
				continue
			}
			out.WriteByte(c)
			i++

		case '@':
			if j, ok := ex.tryBareCitation(&out, body, i); ok {
				i = j
				continue
			}
			out.WriteByte(c)
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}

	if inFence {
		ex.warnings = append(ex.warnings, diag.Warning{
			Code:       diag.WarnUntermFence,
			Message:    "code fence is never closed",
			Suggestion: "close the fence before end of document",
		})
	}

	ex.body = out.String()
	return ex
}

// placeholder registers nodes and writes their token.
func (ex *extraction) placeholder(out *strings.Builder, nodes ...ast.Node) {
	idx := len(ex.nodes)
	ex.nodes = append(ex.nodes, nodes)
	out.WriteRune(phOpen)
	out.WriteString(strconv.Itoa(idx))
	out.WriteRune(phClose)
}

// tryDollarMath handles $...$ and $$...$$ at body[i].
func (ex *extraction) tryDollarMath(out *strings.Builder, body string, i int) (int, bool) {
	if i+1 < len(body) && body[i+1] == '$' {
		// Display math: closes at the next unescaped $$, lines allowed.
		j := findUnescaped(body, i+2, "$$", -1)
		if j < 0 {
			return 0, false
		}
		expr := strings.TrimSpace(body[i+2 : j])
		ex.placeholder(out, &ast.Math{Mode: ast.MathDisplay, Expr: expr})
		return j + 2, true
	}

	// Inline math: opener not followed by space, closer on the same
	// line, preceded by non-space and not followed by a digit. The digit
	// rule keeps currency like "$5 and $10" out. A closer failing the
	// rules invalidates the whole candidate; the content of an inline
	// expression can never contain a dollar sign.
	if i+1 >= len(body) || body[i+1] == ' ' || body[i+1] == '\t' || body[i+1] == '\n' {
		return 0, false
	}
	j := findUnescaped(body, i+1, "$", lineEnd(body, i))
	if j < 0 {
		return 0, false
	}
	prev := body[j-1]
	nextIsDigit := j+1 < len(body) && body[j+1] >= '0' && body[j+1] <= '9'
	if prev == ' ' || prev == '\t' || nextIsDigit {
		return 0, false
	}
	ex.placeholder(out, &ast.Math{Mode: ast.MathInline, Expr: body[i+1 : j]})
	return j + 1, true
}

// tryBackslashMath handles \[...\] and \(...\) at body[i].
func (ex *extraction) tryBackslashMath(out *strings.Builder, body string, i int) (int, bool) {
	if i+1 >= len(body) {
		return 0, false
	}
	switch body[i+1] {
	case '[':
		j := findUnescaped(body, i+2, `\]`, -1)
		if j < 0 {
			return 0, false
		}
		expr := strings.TrimSpace(body[i+2 : j])
		ex.placeholder(out, &ast.Math{Mode: ast.MathDisplay, Expr: expr})
		return j + 2, true
	case '(':
		j := findUnescaped(body, i+2, `\)`, lineEnd(body, i))
		if j < 0 {
			return 0, false
		}
		expr := strings.TrimSpace(body[i+2 : j])
		ex.placeholder(out, &ast.Math{Mode: ast.MathInline, Expr: expr})
		return j + 2, true
	}
	return 0, false
}

// tryCitationGroup handles [@key] and [@a; @b, locator] at body[i].
// Every semicolon-separated part must carry a valid key or the whole
// bracket stays literal. Locators after a comma are accepted and
// discarded.
func (ex *extraction) tryCitationGroup(out *strings.Builder, body string, i int) (int, bool) {
	if i+1 >= len(body) || body[i+1] != '@' {
		return 0, false
	}
	idx := strings.IndexByte(body[i:lineEnd(body, i)], ']')
	if idx < 0 {
		return 0, false
	}
	end := i + idx

	var refs []ast.Node
	for _, part := range strings.Split(body[i+1:end], ";") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "@") {
			return 0, false
		}
		key, n := scanCiteKey(part[1:])
		if key == "" {
			return 0, false
		}
		rest := strings.TrimSpace(part[1+n:])
		if rest != "" && !strings.HasPrefix(rest, ",") {
			return 0, false
		}
		refs = append(refs, &ast.CitationRef{Key: key})
	}

	ex.placeholder(out, refs...)
	return end + 1, true
}

// tryBareCitation handles @key outside brackets. The @ must not follow
// an alphanumeric character, so emails and handles mid-word stay text.
func (ex *extraction) tryBareCitation(out *strings.Builder, body string, i int) (int, bool) {
	if i > 0 && isAlnum(body[i-1]) {
		return 0, false
	}
	key, n := scanCiteKey(body[i+1:])
	if key == "" {
		return 0, false
	}
	ex.placeholder(out, &ast.CitationRef{Key: key})
	return i + 1 + n, true
}

// scanCiteKey reads a citation key: alphanumerics, underscore, and
// inner :, ., - characters. Trailing punctuation is left to the text.
// Returns the key and the number of bytes consumed.
func scanCiteKey(s string) (string, int) {
	n := 0
	for n < len(s) {
		c := s[n]
		if isAlnum(c) || c == '_' || c == ':' || c == '.' || c == '-' {
			n++
			continue
		}
		break
	}
	key := strings.TrimRight(s[:n], ":.-")
	return key, len(key)
}

// findUnescaped returns the index of the next occurrence of sep at or
// after start that is not preceded by an odd number of backslashes.
// limit bounds the search (-1 for none); the match must start before it.
func findUnescaped(body string, start int, sep string, limit int) int {
	for {
		idx := strings.Index(body[start:], sep)
		if idx < 0 {
			return -1
		}
		pos := start + idx
		if limit >= 0 && pos >= limit {
			return -1
		}
		if !escaped(body, pos) {
			return pos
		}
		start = pos + 1
	}
}

// escaped reports whether body[pos] is preceded by an odd number of
// backslashes.
func escaped(body string, pos int) bool {
	n := 0
	for j := pos - 1; j >= 0 && body[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// fenceLine reports whether a line opens or closes a code fence: up to
// three leading spaces then a run of at least three backticks or tildes.
func fenceLine(s string) (ch byte, n int, ok bool) {
	i := 0
	for i < len(s) && i < 3 && s[i] == ' ' {
		i++
	}
	if i >= len(s) || (s[i] != '`' && s[i] != '~') {
		return 0, 0, false
	}
	ch = s[i]
	for i+n < len(s) && s[i+n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// blankLine reports whether the line containing i is empty or
// whitespace-only.
func blankLine(body string, i int) bool {
	return strings.TrimSpace(body[i:lineEnd(body, i)]) == ""
}

// copyLine writes the line starting at i verbatim, returning the index
// of the next line.
func copyLine(out *strings.Builder, body string, i int) int {
	end := lineEnd(body, i)
	if end < len(body) {
		end++ // include the newline
	}
	out.WriteString(body[i:end])
	return end
}

// lineEnd returns the index of the newline terminating the line
// containing i, or len(body).
func lineEnd(body string, i int) int {
	idx := strings.IndexByte(body[i:], '\n')
	if idx < 0 {
		return len(body)
	}
	return i + idx
}

// copyCodeSpan copies an inline code span verbatim: a backtick run
// closed by a run of equal length on the same line. An unmatched run is
// copied as literal text.
func copyCodeSpan(out *strings.Builder, body string, i int) int {
	n := 0
	for i+n < len(body) && body[i+n] == '`' {
		n++
	}
	end := lineEnd(body, i)
	j := i + n
	for j < end {
		idx := strings.Index(body[j:end], strings.Repeat("`", n))
		if idx < 0 {
			break
		}
		pos := j + idx
		if pos+n < end && body[pos+n] == '`' {
			// Longer run: not a closer for this span, skip past it.
			run := pos + n
			for run < end && body[run] == '`' {
				run++
			}
			j = run
			continue
		}
		out.WriteString(body[i : pos+n])
		return pos + n
	}
	out.WriteString(body[i : i+n])
	return i + n
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
