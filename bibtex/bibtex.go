// Package bibtex parses BibTeX bibliography sources into ordered entry
// lists and builds key indexes over them.
//
// The parser is deliberately tolerant: a malformed entry is skipped and
// parsing continues with the next one, so a single bad record never
// discards a whole bibliography. @string abbreviations are expanded,
// @comment and @preamble blocks are ignored.
package bibtex

import "strings"

// Entry is one parsed bibliography record. Type is the entry type
// (article, book, ...) lowercased; field names are lowercased as well.
// Key keeps its original spelling.
type Entry struct {
	Key    string            `json:"key"`
	Type   string            `json:"entryType"`
	Fields map[string]string `json:"fields"`
}

// Field returns a field value by name, case-insensitively.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Parse scans src and returns every well-formed entry in source order.
// Malformed entries are skipped silently; Parse never fails.
func Parse(src string) []Entry {
	p := &parser{src: src, abbrevs: make(map[string]string)}
	return p.parse()
}

type parser struct {
	src     string
	pos     int
	abbrevs map[string]string
}

func (p *parser) parse() []Entry {
	var entries []Entry
	for p.seekAt() {
		typ, closer, ok := p.readEntryType()
		if !ok {
			continue
		}
		switch typ {
		case "comment", "preamble":
			p.skipBlock(closer)
		case "string":
			p.readAbbrev(closer)
		default:
			if e, ok := p.readEntry(typ, closer); ok {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// seekAt advances to the character after the next '@'.
func (p *parser) seekAt() bool {
	idx := strings.IndexByte(p.src[p.pos:], '@')
	if idx < 0 {
		p.pos = len(p.src)
		return false
	}
	p.pos += idx + 1
	return true
}

// readEntryType reads the lowercased entry type and its opening
// delimiter, returning the matching closer. A missing opener marks the
// entry malformed; scanning resumes at the next '@'.
func (p *parser) readEntryType() (typ string, closer byte, ok bool) {
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	typ = strings.ToLower(p.src[start:p.pos])
	p.skipSpace()
	if typ == "" || p.pos >= len(p.src) {
		return "", 0, false
	}
	switch p.src[p.pos] {
	case '{':
		p.pos++
		return typ, '}', true
	case '(':
		p.pos++
		return typ, ')', true
	default:
		return "", 0, false
	}
}

// readEntry reads one cite entry after its opener. Returns ok=false for
// malformed entries, leaving the scanner past the block.
func (p *parser) readEntry(typ string, closer byte) (Entry, bool) {
	p.skipSpace()
	key := p.readKey(closer)
	if key == "" {
		p.skipBlock(closer)
		return Entry{}, false
	}

	e := Entry{Key: key, Type: typ, Fields: make(map[string]string)}
	p.skipSpace()

	for {
		if p.pos >= len(p.src) {
			// Unterminated entry: field integrity is unknowable, drop it.
			return Entry{}, false
		}
		switch p.src[p.pos] {
		case closer:
			p.pos++
			return e, true
		case ',':
			p.pos++
			p.skipSpace()
			// Trailing comma before the closer.
			if p.pos < len(p.src) && p.src[p.pos] == closer {
				p.pos++
				return e, true
			}
			name, value, ok := p.readField(closer)
			if !ok {
				p.skipBlock(closer)
				return Entry{}, false
			}
			e.Fields[name] = value
			p.skipSpace()
		default:
			p.skipBlock(closer)
			return Entry{}, false
		}
	}
}

// readKey reads the cite key: everything up to a comma, closer, or
// whitespace.
func (p *parser) readKey(closer byte) string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == closer || c == '{' || c == '(' || isSpace(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// readField reads one "name = value" pair. Field names are lowercased.
func (p *parser) readField(closer byte) (name, value string, ok bool) {
	start := p.pos
	for p.pos < len(p.src) && isFieldNameChar(p.src[p.pos]) {
		p.pos++
	}
	name = strings.ToLower(p.src[start:p.pos])
	if name == "" {
		return "", "", false
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '=' {
		return "", "", false
	}
	p.pos++
	p.skipSpace()
	value, ok = p.readValue(closer)
	return name, value, ok
}

// readValue reads a field value: braced, quoted, or bare parts joined
// with the '#' concatenation operator. Bare parts matching a known
// @string abbreviation are expanded.
func (p *parser) readValue(closer byte) (string, bool) {
	var parts []string
	for {
		if p.pos >= len(p.src) {
			return "", false
		}
		var part string
		var ok bool
		switch p.src[p.pos] {
		case '{':
			part, ok = p.readBraced()
		case '"':
			part, ok = p.readQuoted()
		default:
			part, ok = p.readBare(closer)
		}
		if !ok {
			return "", false
		}
		parts = append(parts, part)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '#' {
			p.pos++
			p.skipSpace()
			continue
		}
		return normalizeValue(strings.Join(parts, "")), true
	}
}

// readBraced consumes a brace-balanced value, returning its inner text.
// Braces preceded by an odd number of backslashes are literal.
func (p *parser) readBraced() (string, bool) {
	p.pos++ // opening brace
	start := p.pos
	depth := 1
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c == '{' || c == '}') && !escaped(p.src, p.pos) {
			if c == '{' {
				depth++
			} else {
				depth--
				if depth == 0 {
					inner := p.src[start:p.pos]
					p.pos++
					return inner, true
				}
			}
		}
		p.pos++
	}
	return "", false
}

// readQuoted consumes a double-quoted value. Quotes inside braces do not
// terminate it.
func (p *parser) readQuoted() (string, bool) {
	p.pos++ // opening quote
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '{' && !escaped(p.src, p.pos):
			depth++
		case c == '}' && !escaped(p.src, p.pos):
			depth--
		case c == '"' && depth == 0:
			inner := p.src[start:p.pos]
			p.pos++
			return inner, true
		}
		p.pos++
	}
	return "", false
}

// readBare reads an unquoted value part: a number or an abbreviation
// name. Unknown abbreviations pass through as-is.
func (p *parser) readBare(closer byte) (string, bool) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == closer || c == '#' || isSpace(c) {
			break
		}
		p.pos++
	}
	word := p.src[start:p.pos]
	if word == "" {
		return "", false
	}
	if expanded, ok := p.abbrevs[strings.ToLower(word)]; ok {
		return expanded, true
	}
	return word, true
}

// readAbbrev handles an @string{name = value} definition.
func (p *parser) readAbbrev(closer byte) {
	p.skipSpace()
	name, value, ok := p.readField(closer)
	if ok {
		p.abbrevs[name] = value
	}
	p.skipBlock(closer)
}

// skipBlock consumes input until the block closer at depth zero,
// tolerating nested braces. Used both for ignored blocks and for
// abandoning malformed entries.
func (p *parser) skipBlock(closer byte) {
	depth := 1
	opener := byte('{')
	if closer == ')' {
		opener = '('
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c == opener || c == closer || c == '{' || c == '}') && !escaped(p.src, p.pos) {
			switch c {
			case opener, '{':
				depth++
			case closer:
				depth--
				if depth == 0 {
					p.pos++
					return
				}
			case '}':
				if depth > 1 {
					depth--
				}
			}
		}
		p.pos++
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// escaped reports whether src[i] is preceded by an odd number of
// backslashes.
func escaped(src string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// normalizeValue collapses internal whitespace runs to single spaces.
func normalizeValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isFieldNameChar(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == '-' || c == '_'
}
