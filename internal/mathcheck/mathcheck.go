// Package mathcheck validates LaTeX math expressions syntactically:
// grouping-symbol balance, a command allow-list, and environment
// begin/end matching.
//
// The Checker interface is the pluggable seam for delegating to an
// external math engine; Check takes a context because a delegate may
// block. The built-in Syntactic checker is pure and never blocks beyond
// a context fast path.
package mathcheck

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-docmodel/ast"
)

// Result reports one expression's verdict. Reason is set only when
// Valid is false.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Checker validates one expression. Implementations must be safe for
// concurrent use. A non-nil error means the checker itself failed, not
// the expression.
type Checker interface {
	Check(ctx context.Context, expr string, mode ast.MathMode) (Result, error)
}

// Syntactic is the built-in checker.
type Syntactic struct{}

var _ Checker = Syntactic{}

// Default returns the built-in syntactic checker.
func Default() Checker { return Syntactic{} }

// Check validates expr. The mode does not change the syntax rules; it
// is part of the contract so delegates that render can use it.
func (Syntactic) Check(ctx context.Context, expr string, _ ast.MathMode) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s := stripDelimiters(expr)
	for _, check := range []func(string) string{
		checkBalance,
		checkCommands,
		checkEnvironments,
	} {
		if reason := check(s); reason != "" {
			return Result{Valid: false, Reason: reason}, nil
		}
	}
	return Result{Valid: true}, nil
}

// stripDelimiters removes one layer of surrounding math delimiters:
// $$...$$, $...$, \[...\], \(...\).
func stripDelimiters(expr string) string {
	s := strings.TrimSpace(expr)
	switch {
	case len(s) >= 4 && strings.HasPrefix(s, "$$") && strings.HasSuffix(s, "$$"):
		s = s[2 : len(s)-2]
	case len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$"):
		s = s[1 : len(s)-1]
	case len(s) >= 4 && strings.HasPrefix(s, `\[`) && strings.HasSuffix(s, `\]`):
		s = s[2 : len(s)-2]
	case len(s) >= 4 && strings.HasPrefix(s, `\(`) && strings.HasSuffix(s, `\)`):
		s = s[2 : len(s)-2]
	}
	return strings.TrimSpace(s)
}

// checkBalance verifies brace and bracket counts. Escaped symbols do
// not count; parentheses are not tracked.
func checkBalance(s string) string {
	braces, brackets := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // the escaped character never counts
		case '{':
			braces++
		case '}':
			braces--
			if braces < 0 {
				return "unbalanced braces: '}' without matching '{'"
			}
		case '[':
			brackets++
		case ']':
			brackets--
			if brackets < 0 {
				return "unbalanced brackets: ']' without matching '['"
			}
		}
	}
	if braces != 0 {
		return "unbalanced braces: missing '}'"
	}
	if brackets != 0 {
		return "unbalanced brackets: missing ']'"
	}
	return ""
}

// checkCommands verifies every \command against the allow-list.
// Single-character escapes like \{ or \, are always permitted.
func checkCommands(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		if j == i+1 {
			i++ // single-character escape
			continue
		}
		name := s[i+1 : j]
		if !allowedCommands[name] {
			return fmt.Sprintf(`unknown command \%s`, name)
		}
		i = j - 1
	}
	return ""
}

// checkEnvironments matches \begin{x} with \end{x} in stack order.
func checkEnvironments(s string) string {
	var stack []string
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		name, env, next := envAt(s, i)
		switch name {
		case "begin":
			if env == "" {
				return `\begin without environment name`
			}
			if !allowedEnvironments[env] {
				return fmt.Sprintf("unknown environment %q", env)
			}
			stack = append(stack, env)
		case "end":
			if len(stack) == 0 {
				return fmt.Sprintf(`\end{%s} without matching \begin`, env)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top != env {
				return fmt.Sprintf(`environment %q closed by \end{%s}`, top, env)
			}
		}
		i = next - 1
	}
	if len(stack) != 0 {
		return fmt.Sprintf("unclosed environment %q", stack[len(stack)-1])
	}
	return ""
}

// envAt reads a \begin{env} or \end{env} sequence starting at the
// backslash. For any other command it returns the command name with an
// empty env. next is the index after the consumed input.
func envAt(s string, i int) (name, env string, next int) {
	j := i + 1
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	name = s[i+1 : j]
	next = j
	if name != "begin" && name != "end" {
		if next == i+1 {
			next = i + 2 // skip the escaped character
		}
		return name, "", next
	}
	if j < len(s) && s[j] == '{' {
		if k := strings.IndexByte(s[j:], '}'); k > 0 {
			env = s[j+1 : j+k]
			next = j + k + 1
		}
	}
	return name, env, next
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Registry of named external checkers. The empty name is the built-in
// syntactic checker.
var (
	regMu    sync.RWMutex
	registry = map[string]Checker{}
)

// Register makes a checker available under name.
func Register(name string, c Checker) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = c
}

// Lookup resolves a checker by name. The empty name resolves to the
// built-in checker.
func Lookup(name string) (Checker, bool) {
	if name == "" {
		return Default(), true
	}
	regMu.RLock()
	defer regMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}
