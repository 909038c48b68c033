package codebase

import (
	"strings"

	"github.com/dhamidi/onescript/onescript/parser"
)

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolProcedure
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolProcedure:
		return "procedure"
	case SymbolFunction:
		return "function"
	default:
		return "variable"
	}
}

// Symbol is a module-level declaration.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Exported bool
	Detail   string
	Span     parser.Span // whole declaration
	NameSpan parser.Span
}

// SymbolsOf lists the module variables and methods of a source file tree
// in source order. Declarations without a name are skipped.
func SymbolsOf(root *parser.Node) []Symbol {
	var symbols []Symbol

	if vars := root.FirstChildOfKind(parser.KindModuleVarBlock); vars != nil {
		for _, decl := range vars.ChildrenOfKind(parser.KindModuleVarDecl) {
			exported := decl.IsExported()
			for _, name := range decl.Children {
				if name.Field != parser.FieldName || name.Kind != parser.KindIdentifier {
					continue
				}
				symbols = append(symbols, Symbol{
					Name:     name.TokenLiteral(),
					Kind:     SymbolVariable,
					Exported: exported,
					Span:     decl.Span,
					NameSpan: name.Span,
				})
			}
		}
	}

	if methods := root.FirstChildOfKind(parser.KindMethodBlock); methods != nil {
		for _, m := range methods.Children {
			sym, ok := methodSymbol(m)
			if ok {
				symbols = append(symbols, sym)
			}
		}
	}

	return symbols
}

func methodSymbol(m *parser.Node) (Symbol, bool) {
	var kind SymbolKind
	var nameField string
	switch m.Kind {
	case parser.KindProcDecl:
		kind, nameField = SymbolProcedure, parser.FieldProcName
	case parser.KindFuncDecl:
		kind, nameField = SymbolFunction, parser.FieldFuncName
	default:
		return Symbol{}, false
	}

	name := m.ChildByField(nameField)
	if name == nil || name.Kind != parser.KindIdentifier {
		return Symbol{}, false
	}

	return Symbol{
		Name:     name.TokenLiteral(),
		Kind:     kind,
		Exported: m.IsExported(),
		Detail:   signature(m, name.TokenLiteral()),
		Span:     m.Span,
		NameSpan: name.Span,
	}, true
}

// signature renders a method header such as "P(a, Val b = 1) Export".
func signature(m *parser.Node, name string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	if args := m.FirstChildOfKind(parser.KindArgumentList); args != nil {
		for i, arg := range args.ChildrenOfKind(parser.KindArgument) {
			if i > 0 {
				b.WriteString(", ")
			}
			if arg.IsByValue() {
				b.WriteString("Val ")
			}
			b.WriteString(arg.Name())
			if def := arg.ChildByField(parser.FieldDefault); def != nil && def.Token != nil {
				b.WriteString(" = ")
				b.WriteString(def.TokenLiteral())
			}
		}
	}
	b.WriteByte(')')
	if m.IsExported() {
		b.WriteString(" Export")
	}
	return b.String()
}
