package parser

import (
	"errors"
	"strings"
	"testing"
)

func parseWithErrors(t *testing.T, input string) (*Node, []Diagnostic) {
	t.Helper()
	p := ParseSourceFile(strings.NewReader(input), WithFile("test.os"))
	root := p.Finish()
	if root == nil {
		t.Fatal("Finish returned nil")
	}
	err := p.Err()
	if err == nil {
		t.Fatalf("expected diagnostics for %q, tree:\n%s", input, root.String())
	}
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("Err() = %T, want ErrorList", err)
	}
	if len(list) != len(p.Diagnostics()) {
		t.Errorf("ErrorList has %d entries, Diagnostics %d", len(list), len(p.Diagnostics()))
	}
	return root, p.Diagnostics()
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kinds   []DiagnosticKind
		message string
	}{
		{
			"if without EndIf",
			"If a Then x = 1;",
			[]DiagnosticKind{Syntax},
			"expected 'EndIf' to close If opened at test.os:1:1",
		},
		{
			"foreign closer",
			"While x Do EndIf",
			[]DiagnosticKind{Syntax, Syntax},
			`expected 'EndWhile' or 'EndDo' to close While opened at test.os:1:1, got "EndIf"`,
		},
		{
			"function closed as procedure",
			"Function F() EndProcedure",
			[]DiagnosticKind{Syntax},
			`Function opened at test.os:1:1 is closed with "EndProcedure"`,
		},
		{
			"procedure without closer",
			"Процедура P()\n\tx = 1;\n",
			[]DiagnosticKind{Syntax},
			"expected 'EndProcedure' to close Процедура opened at test.os:1:1",
		},
		{
			"missing then",
			"If a x = 1; EndIf",
			[]DiagnosticKind{Syntax},
			`expected 'Then', got "x"`,
		},
		{
			"module variable after method",
			"Procedure P() EndProcedure\nVar x;",
			[]DiagnosticKind{Structural},
			"module variables must be declared before methods and module code",
		},
		{
			"local variable after statement",
			"Procedure P() x = 1; Var y; EndProcedure",
			[]DiagnosticKind{Structural},
			"variable declarations must come before statements",
		},
		{
			"method after module code",
			"x = 1;\nProcedure P() EndProcedure",
			[]DiagnosticKind{Structural},
			"methods must be declared before module code",
		},
		{
			"missing value",
			"x = ;",
			[]DiagnosticKind{Syntax},
			`expected expression, got ";"`,
		},
		{
			"unterminated string",
			"x = \"abc\ny = 1;",
			[]DiagnosticKind{Lexical},
			"unterminated string literal",
		},
		{
			"illegal character",
			"x = 1 @ 2;",
			[]DiagnosticKind{Lexical},
			"unexpected character '@' (U+0040)",
		},
		{
			"statement starting with a number",
			"5;\nx = 1;",
			[]DiagnosticKind{Syntax},
			`expected statement, got "5"`,
		},
		{
			"assignment to a call",
			"f() = 1;",
			[]DiagnosticKind{Syntax},
			"cannot assign to a method call",
		},
		{
			"bare identifier",
			"x;",
			[]DiagnosticKind{Syntax},
			`expected '=' or a method call, got ";"`,
		},
		{
			"unclaimed closer",
			"EndIf;\nx = 1;",
			[]DiagnosticKind{Syntax},
			`unexpected "EndIf" without a matching opening keyword`,
		},
		{
			"default must be a literal",
			"Procedure P(a = b) EndProcedure",
			[]DiagnosticKind{Syntax},
			`expected literal value, got "b"`,
		},
		{
			"malformed argument list",
			"Procedure P(a b) EndProcedure",
			[]DiagnosticKind{Syntax},
			`expected ')', got "b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseWithErrors(t, tt.input)
			if len(diags) != len(tt.kinds) {
				for _, d := range diags {
					t.Log(d.Error())
				}
				t.Fatalf("got %d diagnostics, want %d", len(diags), len(tt.kinds))
			}
			for i, kind := range tt.kinds {
				if diags[i].Kind != kind {
					t.Errorf("diagnostic %d kind = %v, want %v", i, diags[i].Kind, kind)
				}
				if diags[i].Span.Start.Line == 0 {
					t.Errorf("diagnostic %d has no position", i)
				}
			}
			if diags[0].Message != tt.message {
				t.Errorf("message = %q, want %q", diags[0].Message, tt.message)
			}
			if !root.HasErrors() {
				t.Errorf("tree has no error node:\n%s", root.String())
			}
		})
	}
}

func TestRecoveryKeepsParsing(t *testing.T) {
	root, diags := parseWithErrors(t, "x = 1 +;\ny = 2;\nz = (;\nw = 3;")
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}

	var assigned []string
	root.Walk(func(n *Node) bool {
		if n.Kind == KindAssignment {
			assigned = append(assigned, n.ChildByField(FieldTarget).TokenLiteral())
		}
		return true
	})
	if strings.Join(assigned, ",") != "x,y,z,w" {
		t.Errorf("assignments = %v, want x,y,z,w", assigned)
	}
}

func TestRecoveryInsideBlocks(t *testing.T) {
	root, diags := parseWithErrors(t, `
Procedure P()
	If a Then
		x = * 2;
	EndIf;
	y = 1;
EndProcedure

Procedure Q()
EndProcedure
`)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	methods := root.FirstChildOfKind(KindMethodBlock)
	if methods == nil || len(methods.Children) != 2 {
		t.Fatalf("methods = %v", methods)
	}
	body := methods.Children[0].ChildByField(FieldBody)
	if len(body.Children) != 2 || body.Children[1].Kind != KindAssignment {
		t.Errorf("body = %s", body.String())
	}
}

func TestUnmatchedOpenerIsIncomplete(t *testing.T) {
	for _, input := range []string{
		"If a Then",
		"While a Do",
		"For i = 1 To 2 Do",
		"For Each x In y Do",
		"Try",
		"Function F()",
		"Procedure P()",
	} {
		p := ParseSourceFile(strings.NewReader(input))
		p.Finish()
		if p.IsComplete() {
			t.Errorf("%q: IsComplete = true", input)
		}
		if p.Err() == nil {
			t.Errorf("%q: no diagnostic for unmatched opener", input)
		}
	}
}

func TestUnclosedBlockReportedAfterErrorOnSameLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"If a Then x = ;", "expected 'EndIf' to close If"},
		{"While a Do\n  f(;", "expected 'EndWhile' or 'EndDo' to close While"},
		{"Для i = 1 По 2 Цикл x = * 1;", "expected 'EndDo' or 'EndWhile' to close Для"},
		{"Function F() x = ; EndProcedure", `Function opened at test.os:1:1 is closed with "EndProcedure"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, diags := parseWithErrors(t, tt.input)
			if len(diags) < 2 {
				t.Fatalf("got %d diagnostics, want the line error and the closer: %v", len(diags), diags)
			}
			found := false
			for _, d := range diags {
				if strings.HasPrefix(d.Message, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("no diagnostic starting with %q in %v", tt.want, diags)
			}
		})
	}
}

func TestDiagnosticsAreOrdered(t *testing.T) {
	_, diags := parseWithErrors(t, "x = 1 @;\nIf a Then\ny = 'bad';\n")
	for i := 1; i < len(diags); i++ {
		if diags[i].Span.Start.Offset < diags[i-1].Span.Start.Offset {
			t.Errorf("diagnostic %d (%s) comes before %d (%s)", i, diags[i].Span.Start, i-1, diags[i-1].Span.Start)
		}
	}
}

func TestErrorListMessage(t *testing.T) {
	list := ErrorList{
		{Kind: Syntax, Message: "first", Span: Span{Start: Position{File: "a.os", Line: 1, Column: 2}}},
		{Kind: Lexical, Message: "second"},
		{Kind: Structural, Message: "third"},
	}
	want := "a.os:1:2: syntax error: first (and 2 more errors)"
	if got := list.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := list[:1].Error(); got != "a.os:1:2: syntax error: first" {
		t.Errorf("single error = %q", got)
	}
}
