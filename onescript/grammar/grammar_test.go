package grammar

import (
	"strings"
	"testing"

	"github.com/dhamidi/onescript/onescript/parser"
)

func loadGrammar(t *testing.T) *Matcher {
	t.Helper()
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewMatcher(g)
}

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{Start, "Expression", "ForEachLoop", "identifier", "date", "endprocedure"} {
		if _, ok := g[name]; !ok {
			t.Errorf("missing production %s", name)
		}
	}
	if !strings.Contains(string(Source()), "SourceFile =") {
		t.Error("Source does not contain the start production")
	}
}

func TestParseRejectsUnusedProduction(t *testing.T) {
	src := []byte("SourceFile = identifier .\nidentifier = \"x\" .\nunused = \"y\" .\n")
	if _, err := Parse("bad.ebnf", src); err == nil {
		t.Error("expected a verification error")
	}
}

func TestIsLexical(t *testing.T) {
	tests := map[string]bool{
		"SourceFile": false,
		"Expression": false,
		"identifier": true,
		"endif":      true,
		"":           false,
	}
	for name, want := range tests {
		if got := IsLexical(name); got != want {
			t.Errorf("IsLexical(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestEveryKeywordSpellingIsInGrammar(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	spelled := make(map[string]bool)
	for _, spellings := range Keywords(g) {
		for _, s := range spellings {
			spelled[strings.ToLower(s)] = true
		}
	}

	for _, kw := range parser.Keywords() {
		for _, s := range kw.Spellings() {
			// "For Each" is two keywords in the grammar.
			for _, word := range strings.Fields(s) {
				if !spelled[strings.ToLower(word)] {
					t.Errorf("%s: spelling %q is missing from the grammar", kw, word)
				}
			}
		}
	}

	for word := range spelled {
		if len(parser.Lookup(word)) == 0 {
			t.Errorf("grammar keyword %q is unknown to the parser", word)
		}
	}
}

func TestMatch(t *testing.T) {
	m := loadGrammar(t)

	tests := []struct {
		production string
		text       string
		want       bool
	}{
		{"identifier", "abc", true},
		{"identifier", "Имя_1", true},
		{"identifier", "_x", true},
		{"identifier", "1abc", false},
		{"identifier", "a-b", false},
		{"number", "42", true},
		{"number", "3.14", true},
		{"number", "-7", true},
		{"number", "1.", false},
		{"date", "'20240131'", true},
		{"date", "'20240131235959'", true},
		{"date", "'2024'", false},
		{"string", `"text"`, true},
		{"string", `"say ""hi"""`, true},
		{"string", `"Привет"`, true},
		{"string", "\"first\n|second\"", true},
		{"string", "\"unterminated", false},
		{"if", "ЕСЛИ", true},
		{"if", "if", true},
		{"enddo", "КонецЦикла", true},
		{"endwhile", "конеццикла", true},
		{"null", "NULL", true},
		{"then", "Then2", false},
	}

	for _, tt := range tests {
		t.Run(tt.production+" "+tt.text, func(t *testing.T) {
			got, err := m.Match(tt.production, tt.text)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%s, %q) = %v, want %v", tt.production, tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchErrors(t *testing.T) {
	m := loadGrammar(t)
	if _, err := m.Match("nope", "x"); err == nil {
		t.Error("expected an error for an unknown production")
	}
	if _, err := m.Match("Expression", "x"); err == nil {
		t.Error("expected an error for a non-lexical production")
	}
}

func TestPrefix(t *testing.T) {
	m := loadGrammar(t)
	n, err := m.Prefix("identifier", "Сумма+1")
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}
	if n != 5 {
		t.Errorf("Prefix = %d, want 5", n)
	}
}

// The hand-written lexer and the lexical productions must agree on what a
// single lexeme is.
func TestLexerAgreesWithGrammar(t *testing.T) {
	m := loadGrammar(t)

	productions := map[parser.TokenKind]string{
		parser.TokenIdent:  "identifier",
		parser.TokenNumber: "number",
		parser.TokenString: "string",
		parser.TokenDate:   "date",
	}

	samples := []string{
		"x", "Переменная1", "_tmp", "Ёлка",
		"0", "12.5", "-3",
		`""`, `"a""b"`, "\"a\n  |b\"",
		"'20240101'", "'2024010112'", "'20240101000000000'",
	}

	for _, sample := range samples {
		t.Run(sample, func(t *testing.T) {
			tokens := parser.Tokenize([]byte(sample), "")
			lexedAs := parser.TokenError
			if len(tokens) == 2 {
				lexedAs = tokens[0].Kind
			}
			for kind, production := range productions {
				matched, err := m.Match(production, sample)
				if err != nil {
					t.Fatalf("Match: %v", err)
				}
				if lexed := lexedAs == kind; matched != lexed {
					t.Errorf("%s: grammar match = %v, lexer %v (tokens %v)", production, matched, lexed, tokens)
				}
			}
		})
	}
}
