// Package linkcheck validates link targets against the document they
// live in. External targets must be well-formed URLs; internal anchors
// must land on a section in the same tree. The checker reports
// diagnostics and never fails.
package linkcheck

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-docmodel/ast"
	"github.com/alnah/go-docmodel/diag"
)

// Check walks every link in doc in document order. Malformed external
// targets come back as errors, anchors that match no section as
// warnings. Locations index links by order of appearance.
func Check(doc *ast.Document) ([]diag.Error, []diag.Warning) {
	anchors, known := collectAnchors(doc)

	var (
		errs  []diag.Error
		warns []diag.Warning
		pos   int
	)
	_ = doc.Walk(func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if e, w := checkTarget(link.Target, pos, anchors, known); e != nil {
			errs = append(errs, *e)
		} else if w != nil {
			warns = append(warns, *w)
		}
		pos++
		return ast.WalkContinue, nil
	})
	return errs, warns
}

// checkTarget classifies one target and produces at most one
// diagnostic for it.
func checkTarget(target string, pos int, anchors map[string]bool, known []string) (*diag.Error, *diag.Warning) {
	t := strings.TrimSpace(target)
	lower := strings.ToLower(t)

	switch {
	case t == "":
		e := diag.Errorf(diag.CodeMalformedURL, "link has an empty target")
		e.Location = location(pos)
		return &e, nil

	case t == "#":
		// Self link to the top of the document.
		return nil, nil

	case strings.HasPrefix(t, "#"):
		name := t[1:]
		if anchors[name] {
			return nil, nil
		}
		w := diag.Warningf(diag.WarnBrokenAnchor, "anchor %q matches no section in the document", t)
		w.Suggestion = anchorSuggestion(known)
		return nil, &w

	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		return nil, nil

	default:
		if reason := urlProblem(t); reason != "" {
			e := diag.Errorf(diag.CodeMalformedURL, "malformed URL %q: %s", t, reason)
			e.Location = location(pos)
			return &e, nil
		}
		return nil, nil
	}
}

// urlProblem reports why a target is not a usable URL, or "" when it
// is. Relative paths are usable; http(s) URLs additionally need a host.
func urlProblem(target string) string {
	if strings.ContainsAny(target, " \t\n") {
		return "contains whitespace"
	}
	u, err := url.Parse(target)
	if err != nil {
		return err.Error()
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return "missing host"
	}
	return ""
}

// collectAnchors gathers every section anchor in the tree. Sections
// without an explicit ID contribute a slug of their title, so trees
// built by hand resolve the same way parsed ones do.
func collectAnchors(doc *ast.Document) (map[string]bool, []string) {
	anchors := map[string]bool{}
	_ = doc.Walk(func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if sec, ok := n.(*ast.Section); ok {
			id := sec.ID
			if id == "" {
				id = Slugify(sec.Title)
			}
			if id != "" {
				anchors[id] = true
			}
		}
		return ast.WalkContinue, nil
	})

	known := make([]string, 0, len(anchors))
	for a := range anchors {
		known = append(known, a)
	}
	sort.Strings(known)
	return anchors, known
}

func anchorSuggestion(known []string) string {
	if len(known) == 0 {
		return "the document has no section anchors"
	}
	const max = 5
	if len(known) > max {
		known = known[:max]
	}
	return "known anchors: " + strings.Join(known, ", ")
}

// Slugify derives an anchor from a heading title the way auto heading
// IDs are generated: lowercase, spaces to hyphens, punctuation dropped.
func Slugify(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func location(pos int) string {
	return "link[" + strconv.Itoa(pos) + "]"
}
