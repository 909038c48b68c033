package parser

import "strings"

// Keyword is a reserved grammar role. Every role has one Latin and one
// Cyrillic spelling; both are matched case-insensitively.
type Keyword int

const (
	KeywordNone Keyword = iota

	KeywordIf
	KeywordThen
	KeywordElsIf
	KeywordElse
	KeywordEndIf
	KeywordWhile
	KeywordDo
	KeywordEndWhile
	KeywordFor
	KeywordEach
	KeywordForEach
	KeywordTo
	KeywordIn
	KeywordEndDo
	KeywordTry
	KeywordExcept
	KeywordEndTry
	KeywordReturn
	KeywordRaise
	KeywordBreak
	KeywordContinue
	KeywordFunction
	KeywordEndFunction
	KeywordProcedure
	KeywordEndProcedure
	KeywordExport
	KeywordVar
	KeywordVal
	KeywordNew
	KeywordNot
	KeywordAnd
	KeywordOr
	KeywordAddHandler
	KeywordRemoveHandler
	KeywordNull
	KeywordTrue
	KeywordFalse
	KeywordUndefined

	keywordCount
)

// Language selects one of the two spellings of a keyword.
type Language int

const (
	English Language = iota
	Russian
)

func (l Language) String() string {
	if l == Russian {
		return "ru"
	}
	return "en"
}

type keywordInfo struct {
	name      string
	spellings [2]string
}

// keywordTable is written once at init and only read afterwards, so it is
// safe to share between concurrent parses.
var keywordTable = [keywordCount]keywordInfo{
	KeywordNone:          {"None", [2]string{"", ""}},
	KeywordIf:            {"If", [2]string{"If", "Если"}},
	KeywordThen:          {"Then", [2]string{"Then", "Тогда"}},
	KeywordElsIf:         {"ElsIf", [2]string{"ElsIf", "ИначеЕсли"}},
	KeywordElse:          {"Else", [2]string{"Else", "Иначе"}},
	KeywordEndIf:         {"EndIf", [2]string{"EndIf", "КонецЕсли"}},
	KeywordWhile:         {"While", [2]string{"While", "Пока"}},
	KeywordDo:            {"Do", [2]string{"Do", "Цикл"}},
	KeywordEndWhile:      {"EndWhile", [2]string{"EndWhile", "КонецЦикла"}},
	KeywordFor:           {"For", [2]string{"For", "Для"}},
	KeywordEach:          {"Each", [2]string{"Each", "Каждого"}},
	KeywordForEach:       {"ForEach", [2]string{"For Each", "Для Каждого"}},
	KeywordTo:            {"To", [2]string{"To", "По"}},
	KeywordIn:            {"In", [2]string{"In", "Из"}},
	KeywordEndDo:         {"EndDo", [2]string{"EndDo", "КонецЦикла"}},
	KeywordTry:           {"Try", [2]string{"Try", "Попытка"}},
	KeywordExcept:        {"Except", [2]string{"Except", "Исключение"}},
	KeywordEndTry:        {"EndTry", [2]string{"EndTry", "КонецПопытки"}},
	KeywordReturn:        {"Return", [2]string{"Return", "Возврат"}},
	KeywordRaise:         {"Raise", [2]string{"Raise", "ВызватьИсключение"}},
	KeywordBreak:         {"Break", [2]string{"Break", "Прервать"}},
	KeywordContinue:      {"Continue", [2]string{"Continue", "Продолжить"}},
	KeywordFunction:      {"Function", [2]string{"Function", "Функция"}},
	KeywordEndFunction:   {"EndFunction", [2]string{"EndFunction", "КонецФункции"}},
	KeywordProcedure:     {"Procedure", [2]string{"Procedure", "Процедура"}},
	KeywordEndProcedure:  {"EndProcedure", [2]string{"EndProcedure", "КонецПроцедуры"}},
	KeywordExport:        {"Export", [2]string{"Export", "Экспорт"}},
	KeywordVar:           {"Var", [2]string{"Var", "Перем"}},
	KeywordVal:           {"Val", [2]string{"Val", "Знач"}},
	KeywordNew:           {"New", [2]string{"New", "Новый"}},
	KeywordNot:           {"Not", [2]string{"Not", "Не"}},
	KeywordAnd:           {"And", [2]string{"And", "И"}},
	KeywordOr:            {"Or", [2]string{"Or", "Или"}},
	KeywordAddHandler:    {"AddHandler", [2]string{"AddHandler", "ДобавитьОбработчик"}},
	KeywordRemoveHandler: {"RemoveHandler", [2]string{"RemoveHandler", "УдалитьОбработчик"}},
	KeywordNull:          {"Null", [2]string{"Null", "NULL"}},
	KeywordTrue:          {"True", [2]string{"True", "Истина"}},
	KeywordFalse:         {"False", [2]string{"False", "Ложь"}},
	KeywordUndefined:     {"Undefined", [2]string{"Undefined", "Неопределено"}},
}

// keywordIndex maps a lowercased single-word spelling to every role it
// spells. КонецЦикла spells both EndWhile and EndDo.
var keywordIndex = map[string][]Keyword{}

var literalKeywords = map[Keyword]TokenKind{
	KeywordNull:      TokenNull,
	KeywordUndefined: TokenUndefined,
	KeywordTrue:      TokenTrue,
	KeywordFalse:     TokenFalse,
}

func init() {
	for kw := KeywordNone + 1; kw < keywordCount; kw++ {
		if kw == KeywordForEach {
			continue
		}
		for _, s := range keywordTable[kw].spellings {
			key := strings.ToLower(s)
			if !containsKeyword(keywordIndex[key], kw) {
				keywordIndex[key] = append(keywordIndex[key], kw)
			}
		}
	}
}

func containsKeyword(list []Keyword, kw Keyword) bool {
	for _, k := range list {
		if k == kw {
			return true
		}
	}
	return false
}

func (k Keyword) String() string {
	if k < 0 || k >= keywordCount {
		return "Unknown"
	}
	return keywordTable[k].name
}

// Spelling returns the canonical spelling of k in the given language.
func (k Keyword) Spelling(lang Language) string {
	if k <= KeywordNone || k >= keywordCount {
		return ""
	}
	return keywordTable[k].spellings[lang]
}

// Spellings returns the Latin and Cyrillic spellings of k.
func (k Keyword) Spellings() []string {
	if k <= KeywordNone || k >= keywordCount {
		return nil
	}
	s := keywordTable[k].spellings
	return []string{s[English], s[Russian]}
}

// Keywords returns every keyword role in declaration order.
func Keywords() []Keyword {
	result := make([]Keyword, 0, keywordCount-1)
	for kw := KeywordNone + 1; kw < keywordCount; kw++ {
		result = append(result, kw)
	}
	return result
}

// Lookup returns every keyword role the lexeme spells, or nil for a plain
// identifier. The lookup is case-insensitive for both alphabets.
func Lookup(lexeme string) []Keyword {
	return keywordIndex[strings.ToLower(lexeme)]
}

// Is reports whether lexeme is a spelling of kw.
func Is(lexeme string, kw Keyword) bool {
	return containsKeyword(Lookup(lexeme), kw)
}

// LanguageOf reports which alphabet a keyword spelling uses.
func LanguageOf(lexeme string) Language {
	for _, r := range lexeme {
		if r >= 'А' && r <= 'я' {
			return Russian
		}
	}
	return English
}

// lookupLiteral classifies the literal keywords the lexer emits as their own
// token kinds.
func lookupLiteral(lexeme string) (TokenKind, bool) {
	for _, kw := range Lookup(lexeme) {
		if kind, ok := literalKeywords[kw]; ok {
			return kind, true
		}
	}
	return TokenIdent, false
}

// closingKeywords end or split a code block. A statement never starts with
// one of them.
var closingKeywords = []Keyword{
	KeywordElsIf, KeywordElse, KeywordEndIf,
	KeywordEndWhile, KeywordEndDo,
	KeywordExcept, KeywordEndTry,
	KeywordEndFunction, KeywordEndProcedure,
}

func isClosingKeyword(lexeme string) bool {
	for _, kw := range Lookup(lexeme) {
		if containsKeyword(closingKeywords, kw) {
			return true
		}
	}
	return false
}
