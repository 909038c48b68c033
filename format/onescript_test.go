package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/onescript/onescript/parser"
)

func TestPrettyPrint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lang  Language
		want  string
	}{
		{
			"assignment",
			"x=1+2*3",
			LanguageKeep,
			"x = 1 + 2 * 3;\n",
		},
		{
			"keywords normalized to english",
			"если а тогда б = 1; иначеесли в тогда иначе конецесли",
			LanguageEnglish,
			"If а Then\n\tб = 1;\nElsIf в Then\nElse\nEndIf;\n",
		},
		{
			"keep picks the majority alphabet",
			"Если Не а И б Тогда Возврат; КонецЕсли",
			LanguageKeep,
			"Если Не а И б Тогда\n\tВозврат;\nКонецЕсли;\n",
		},
		{
			"loops",
			"While x Do For i = 1 To 10 Do Break; EndDo; For Each v In list Do Continue; EndWhile; EndDo",
			LanguageRussian,
			"Пока x Цикл\n\tДля i = 1 По 10 Цикл\n\t\tПрервать;\n\tКонецЦикла;\n\tДля Каждого v Из list Цикл\n\t\tПродолжить;\n\tКонецЦикла;\nКонецЦикла;\n",
		},
		{
			"loop closers follow the loop kind",
			"Пока x Цикл Для Каждого v Из list Цикл КонецЦикла; КонецЦикла; While y Do EndDo;",
			LanguageEnglish,
			"While x Do\n\tFor Each v In list Do\n\tEndDo;\nEndWhile;\nWhile y Do\nEndWhile;\n",
		},
		{
			"try and handlers",
			"Попытка ДобавитьОбработчик a.b, c; Исключение ВызватьИсключение \"oops\"; КонецПопытки;",
			LanguageEnglish,
			"Try\n\tAddHandler a.b, c;\nExcept\n\tRaise \"oops\";\nEndTry;\n",
		},
		{
			"module layout",
			"&Ann Var a Export; Var b; &At(1, Name = \"x\") Function F(Val x = 1, y) Export Var l; Return x; EndFunction Procedure P() EndProcedure P();",
			LanguageEnglish,
			"&Ann\nVar a Export;\nVar b;\n\n&At(1, Name = \"x\")\nFunction F(Val x = 1, y) Export\n\tVar l;\n\tReturn x;\nEndFunction\n\nProcedure P()\nEndProcedure\n\nP();\n",
		},
		{
			"expressions",
			"x = ?(a<>b, -(1), New Структура(\"a\", 1)); y = New(\"Массив\", 3); z = f(a, , b)[0].c; w = - 1;",
			LanguageEnglish,
			"x = ?(a <> b, -(1), New Структура(\"a\", 1));\ny = New(\"Массив\", 3);\nz = f(a, , b)[0].c;\nw = - 1;\n",
		},
		{
			"signs after keywords",
			"Procedure P() Return -1; Return - -1; EndProcedure If -1 > a Then x = - 1; EndIf; For i = 1 To -1 Do EndDo;",
			LanguageEnglish,
			"Procedure P()\n\tReturn -1;\n\tReturn - -1;\nEndProcedure\n\nIf -1 > a Then\n\tx = - 1;\nEndIf;\nFor i = 1 To -1 Do\nEndDo;\n",
		},
		{
			"byte order mark is kept",
			"\ufeffx=1",
			LanguageEnglish,
			"\ufeffx = 1;\n",
		},
		{
			"literal keywords",
			"x = Истина Или NULL = Неопределено",
			LanguageEnglish,
			"x = True Or Null = Undefined;\n",
		},
		{
			"comments are kept",
			"// header\nProcedure P()\n\t// inside\n\tx = 1; // trailing\n\t// before end\nEndProcedure\n#Region tail\n",
			LanguageEnglish,
			"// header\nProcedure P()\n\t// inside\n\tx = 1;\n\t// trailing\n\t// before end\nEndProcedure\n#Region tail\n",
		},
		{
			"empty statements",
			"x = 1;;",
			LanguageEnglish,
			"x = 1;\n;\n",
		},
		{
			"empty file",
			"",
			LanguageEnglish,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrettyPrint([]byte(tt.input), WithLanguage(tt.lang))
			if err != nil {
				t.Fatalf("PrettyPrint: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestPrettyPrintIndent(t *testing.T) {
	got, err := PrettyPrint([]byte("If a Then b(); EndIf"), WithIndent("  "))
	if err != nil {
		t.Fatalf("PrettyPrint: %v", err)
	}
	if want := "If a Then\n  b();\nEndIf;\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyPrintRejectsErrors(t *testing.T) {
	_, err := PrettyPrint([]byte("If a Then"))
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

const roundTripSource = `// Counter module
Перем Счетчик Экспорт;

&НаСервере
Процедура Увеличить(Знач Шаг = 1, Лог) Экспорт
	Перем Старое;
	Старое = Счетчик;
	Если Шаг > 0 И НЕ Лог = Неопределено Тогда
		Счетчик = Счетчик + Шаг;
	ИначеЕсли Шаг = 0 Тогда
		Возврат;
	Иначе
		ВызватьИсключение "отрицательный шаг";
	КонецЕсли;
	Для Каждого Элемент Из Лог.Записи() Цикл
		Элемент.Отметить(Старое, , ?(Шаг < 10, "мало", "много"));
	КонецЦикла;
КонецПроцедуры

Функция Текст()
	Если Счетчик < 0 Тогда
		Возврат -1;
	КонецЕсли;
	Возврат "строка ""в кавычках""
	|продолжение";
КонецФункции

Для i = -5 По 5 Цикл
	Массив[i % 2] = Новый Структура("a, b", -i, '20240101');
КонецЦикла;

Пока Счетчик > 0 Цикл
	Счетчик = Счетчик - 1;
КонецЦикла;
`

func TestRoundTrip(t *testing.T) {
	for _, lang := range []Language{LanguageKeep, LanguageEnglish, LanguageRussian} {
		t.Run(lang.String(), func(t *testing.T) {
			runRoundTrip(t, roundTripSource, lang)
		})
	}
}

func runRoundTrip(t *testing.T, source string, lang Language) {
	t.Helper()
	orig := parser.ParseSourceFile(strings.NewReader(source))
	origAST := orig.Finish()
	if err := orig.Err(); err != nil {
		t.Fatalf("original has errors: %v", err)
	}

	formatted, err := PrettyPrint([]byte(source), WithLanguage(lang))
	if err != nil {
		t.Fatalf("PrettyPrint: %v", err)
	}

	again := parser.ParseSourceFile(bytes.NewReader(formatted))
	fmtAST := again.Finish()
	if err := again.Err(); err != nil {
		t.Fatalf("formatted output has errors: %v\n%s", err, formatted)
	}
	if origAST.SExpr() != fmtAST.SExpr() {
		t.Errorf("tree changed after formatting\norig: %s\nfmt:  %s\n\n%s", origAST.SExpr(), fmtAST.SExpr(), formatted)
	}

	twice, err := PrettyPrint(formatted, WithLanguage(lang))
	if err != nil {
		t.Fatalf("second PrettyPrint: %v", err)
	}
	if !bytes.Equal(formatted, twice) {
		t.Errorf("formatting is not idempotent\nfirst:\n%s\nsecond:\n%s", formatted, twice)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{"en": LanguageEnglish, "RU": LanguageRussian, "keep": LanguageKeep, "": LanguageKeep}
	for in, want := range tests {
		got, err := ParseLanguage(in)
		if err != nil || got != want {
			t.Errorf("ParseLanguage(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLanguage("de"); err == nil {
		t.Error("expected an error for an unknown language")
	}
}

func TestEncoders(t *testing.T) {
	p := parser.ParseSourceFile(strings.NewReader("x = 1;"), parser.WithFile("a.os"))
	root := p.Finish()

	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(name, &buf, false)
			if err != nil {
				t.Fatalf("NewEncoder: %v", err)
			}
			if err := enc.Encode(root); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("no output")
			}
		})
	}

	if _, err := NewEncoder("xml", nil, false); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestASTJSONEncoderWithDiagnostics(t *testing.T) {
	p := parser.ParseSourceFile(strings.NewReader("x = ;"))
	root := p.Finish()

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).WithDiagnostics(p.Diagnostics()).Encode(root); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"tree": {`, `"diagnostics": [`, `"kind": "syntax"`, `"severity": "error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %s:\n%s", want, out)
		}
	}
}
