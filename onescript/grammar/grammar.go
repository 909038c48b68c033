// Package grammar embeds the OneScript grammar in EBNF notation and
// matches lexemes against its lexical productions.
//
// The grammar documents the language accepted by the parser package. It
// is verified with golang.org/x/exp/ebnf, and the lexical productions
// (identifier, number, string, date and every keyword) are executable:
// a Matcher decides whether a piece of text is derivable from one of
// them.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/exp/ebnf"
)

// Start is the production every other production is reachable from.
const Start = "SourceFile"

//go:embed onescript.ebnf
var source []byte

// Source returns the grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("onescript.ebnf", source)
}

// Parse parses and verifies a grammar starting at Start.
func Parse(filename string, src []byte) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// IsLexical reports whether the named production describes a single
// lexeme rather than a sequence of tokens.
func IsLexical(name string) bool {
	for _, r := range name {
		return !unicode.IsUpper(r)
	}
	return false
}

// Productions returns the production names of g in sorted order.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spellings returns the alternatives of a production that consists only
// of literal tokens, such as a keyword. Other productions yield nil.
func Spellings(g ebnf.Grammar, name string) []string {
	prod, ok := g[name]
	if !ok || prod.Expr == nil {
		return nil
	}
	switch e := prod.Expr.(type) {
	case *ebnf.Token:
		return []string{e.String}
	case ebnf.Alternative:
		var result []string
		for _, alt := range e {
			tok, ok := alt.(*ebnf.Token)
			if !ok {
				return nil
			}
			result = append(result, tok.String)
		}
		return result
	}
	return nil
}

// Keywords maps each keyword production to its spellings. A keyword
// production is a lexical production made only of letter tokens.
func Keywords(g ebnf.Grammar) map[string][]string {
	result := make(map[string][]string)
	for name := range g {
		if !IsLexical(name) {
			continue
		}
		spellings := Spellings(g, name)
		if len(spellings) == 0 {
			continue
		}
		if strings.IndexFunc(strings.Join(spellings, ""), func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			continue
		}
		result[name] = spellings
	}
	return result
}
