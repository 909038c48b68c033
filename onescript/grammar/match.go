package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

type memoKey struct {
	name   string
	offset int
}

// Matcher matches text against the lexical productions of a grammar.
// Literal tokens are compared without regard to case and ranges are
// compared by rune, so Cyrillic letters match "А" … "я".
//
// Matching is greedy: alternatives take the longest match and
// repetitions never give characters back. That is enough for the
// lexical productions of the OneScript grammar.
type Matcher struct {
	grammar  ebnf.Grammar
	input    []rune
	memo     map[memoKey]int  // key -> match length (-1 = no match)
	visiting map[memoKey]bool // left recursion guard
}

// NewMatcher creates a matcher for g.
func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match reports whether the whole of text derives from the named
// lexical production.
func (m *Matcher) Match(production, text string) (bool, error) {
	n, err := m.Prefix(production, text)
	if err != nil {
		return false, err
	}
	return n == utf8.RuneCountInString(text), nil
}

// Prefix returns the number of runes at the start of text that the named
// production matches.
func (m *Matcher) Prefix(production, text string) (int, error) {
	prod, ok := m.grammar[production]
	if !ok || prod.Expr == nil {
		return 0, fmt.Errorf("unknown production %q", production)
	}
	if !IsLexical(production) {
		return 0, fmt.Errorf("production %q is not lexical", production)
	}
	m.input = []rune(text)
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.matchName(production, 0), nil
}

func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := m.match(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.visiting[key] {
		return -1
	}
	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	n := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = n
	return n
}

func (m *Matcher) matchToken(token string, offset int) int {
	want := []rune(token)
	if offset+len(want) > len(m.input) {
		return -1
	}
	if !strings.EqualFold(string(m.input[offset:offset+len(want)]), token) {
		return -1
	}
	return len(want)
}

func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	if r := m.input[offset]; r >= lo && r <= hi {
		return 1
	}
	return -1
}
