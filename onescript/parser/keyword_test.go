package parser

import (
	"strings"
	"testing"
)

func TestKeywordLookup(t *testing.T) {
	tests := []struct {
		lexeme string
		want   []Keyword
	}{
		{"If", []Keyword{KeywordIf}},
		{"if", []Keyword{KeywordIf}},
		{"IF", []Keyword{KeywordIf}},
		{"Если", []Keyword{KeywordIf}},
		{"ЕСЛИ", []Keyword{KeywordIf}},
		{"если", []Keyword{KeywordIf}},
		{"ИначеЕсли", []Keyword{KeywordElsIf}},
		{"конеццикла", []Keyword{KeywordEndWhile, KeywordEndDo}},
		{"EndDo", []Keyword{KeywordEndDo}},
		{"каждого", []Keyword{KeywordEach}},
		{"ВызватьИсключение", []Keyword{KeywordRaise}},
		{"null", []Keyword{KeywordNull}},
		{"Counter", nil},
		{"For Each", nil},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			got := Lookup(tt.lexeme)
			if len(got) != len(tt.want) {
				t.Fatalf("Lookup(%q) = %v, want %v", tt.lexeme, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Lookup(%q)[%d] = %v, want %v", tt.lexeme, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestKeywordSpellingsInAnyCase(t *testing.T) {
	for _, kw := range Keywords() {
		for _, spelling := range kw.Spellings() {
			words := strings.Fields(spelling)
			if len(words) != 1 {
				continue
			}
			for _, variant := range []string{spelling, strings.ToLower(spelling), strings.ToUpper(spelling)} {
				if !Is(variant, kw) {
					t.Errorf("Is(%q, %v) = false", variant, kw)
				}
			}
		}
	}
}

func TestKeywordTableIsComplete(t *testing.T) {
	for _, kw := range Keywords() {
		if kw.Spelling(English) == "" || kw.Spelling(Russian) == "" {
			t.Errorf("%v is missing a spelling", kw)
		}
		if LanguageOf(kw.Spelling(Russian)) != Russian && kw != KeywordNull {
			t.Errorf("%v: Russian spelling %q is not Cyrillic", kw, kw.Spelling(Russian))
		}
		if LanguageOf(kw.Spelling(English)) != English {
			t.Errorf("%v: English spelling %q is not Latin", kw, kw.Spelling(English))
		}
	}
}

func TestForEachSpelling(t *testing.T) {
	if got := KeywordForEach.Spelling(Russian); got != "Для Каждого" {
		t.Errorf("ForEach Russian = %q", got)
	}
	words := strings.Fields(KeywordForEach.Spelling(English))
	if len(words) != 2 || !Is(words[0], KeywordFor) || !Is(words[1], KeywordEach) {
		t.Errorf("ForEach English words %v do not resolve to For and Each", words)
	}
}

func TestIdentifierIsNotKeyword(t *testing.T) {
	for _, lexeme := range []string{"Ifx", "Если1", "Процедуры", "_If", "Endif_"} {
		if got := Lookup(lexeme); got != nil {
			t.Errorf("Lookup(%q) = %v, want nil", lexeme, got)
		}
	}
}
