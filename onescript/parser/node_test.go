package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindSourceFile, "source_file"},
		{KindFuncDecl, "func_declaration"},
		{KindProcDecl, "proc_declaration"},
		{KindModuleVarBlock, "module_var_block"},
		{KindRaiseStmt, "raise_operator"},
		{KindCallExpr, "method_call"},
		{KindMemberExpr, "member_property"},
		{KindIndexExpr, "index_access"},
		{KindError, "error"},
		{NodeKind(-1), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNodeAddChild(t *testing.T) {
	parent := &Node{Kind: KindCodeBlock}
	parent.AddChild(nil)
	if len(parent.Children) != 0 {
		t.Error("nil child was added")
	}
	parent.AddField(FieldValue, &Node{Kind: KindLiteral})
	if parent.ChildByField(FieldValue) == nil {
		t.Error("field child not found")
	}
	if parent.ChildByField(FieldTarget) != nil {
		t.Error("unexpected target field")
	}
}

func TestNodeWalk(t *testing.T) {
	root := parseSource(t, "If a Then b = 1; EndIf; c();")

	var kinds []string
	root.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind.String())
		return n.Kind != KindIfStmt
	})
	want := "source_file,code_block,if_statement,call_statement,method_call,identifier,call_args"
	if got := strings.Join(kinds, ","); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestNodeString(t *testing.T) {
	root := parseSource(t, "x = 1;")
	want := "source_file\n  code_block\n    assignment\n      target: identifier x\n      value: literal 1\n"
	if got := root.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(root.StringWithPositions(), "target: identifier [test.os:1:1-test.os:1:2] x") {
		t.Errorf("positions missing:\n%s", root.StringWithPositions())
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	root := parseSource(t, "Процедура P() Экспорт\nКонецПроцедуры")
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind     string `json:"kind"`
				Children []struct {
					Kind    string `json:"kind"`
					Field   string `json:"field"`
					Keyword string `json:"keyword"`
					Token   string `json:"token"`
					Span    struct {
						Start struct {
							Line   int `json:"line"`
							Column int `json:"column"`
						} `json:"start"`
					} `json:"span"`
				} `json:"children"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != "source_file" {
		t.Errorf("kind = %q", decoded.Kind)
	}
	proc := decoded.Children[0].Children[0]
	if proc.Kind != "proc_declaration" {
		t.Fatalf("kind = %q, want proc_declaration", proc.Kind)
	}
	name := proc.Children[0]
	if name.Field != FieldProcName || name.Token != "P" || name.Span.Start.Column != 11 {
		t.Errorf("name = %+v", name)
	}
	export := proc.Children[2]
	if export.Kind != "export" || export.Keyword != "Export" || export.Token != "Экспорт" {
		t.Errorf("export = %+v", export)
	}
}

func TestDiagnosticMarshalJSON(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Kind:     Syntax,
		Message:  "expected 'Then'",
		Span:     Span{Start: Position{Line: 2, Column: 3}, End: Position{Line: 2, Column: 4}},
		Expected: []string{"Then"},
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"severity":"error"`, `"kind":"syntax"`, `"expected":["Then"]`, `"line":2`} {
		if !strings.Contains(got, want) {
			t.Errorf("%s does not contain %s", got, want)
		}
	}
}
