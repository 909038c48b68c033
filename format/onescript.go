package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/onescript/onescript/parser"
)

// ErrSyntax is returned when a tree with error nodes is formatted.
var ErrSyntax = errors.New("source has syntax errors")

// Language selects the spelling of keywords in formatted source.
type Language int

const (
	// LanguageKeep uses the alphabet most keywords of the source use.
	LanguageKeep Language = iota
	LanguageEnglish
	LanguageRussian
)

func (l Language) String() string {
	switch l {
	case LanguageEnglish:
		return "en"
	case LanguageRussian:
		return "ru"
	default:
		return "keep"
	}
}

// ParseLanguage accepts "en", "ru" and "keep".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "", "keep":
		return LanguageKeep, nil
	case "en", "english":
		return LanguageEnglish, nil
	case "ru", "russian":
		return LanguageRussian, nil
	}
	return LanguageKeep, fmt.Errorf("unknown language %q (want en, ru or keep)", s)
}

type PrinterOption func(*OneScriptEncoder)

func WithLanguage(lang Language) PrinterOption {
	return func(e *OneScriptEncoder) {
		e.language = lang
	}
}

func WithIndent(indent string) PrinterOption {
	return func(e *OneScriptEncoder) {
		e.indentStr = indent
	}
}

// WithSource supplies the text the tree was parsed from and its comments.
// Comments are printed on their own lines before the code that followed
// them.
func WithSource(source []byte, comments []parser.Token) PrinterOption {
	return func(e *OneScriptEncoder) {
		e.source = source
		e.comments = comments
	}
}

// OneScriptEncoder prints a source file tree as canonical OneScript: one
// statement per line, indented blocks, every keyword in one language.
type OneScriptEncoder struct {
	w         io.Writer
	language  Language
	indentStr string
	source    []byte
	comments  []parser.Token

	out          strings.Builder
	lang         parser.Language
	indent       int
	commentIndex int
	// afterWord is set while printing an expression that directly follows
	// a keyword.
	afterWord bool
}

func NewOneScriptEncoder(w io.Writer, opts ...PrinterOption) *OneScriptEncoder {
	e := &OneScriptEncoder{
		w:         w,
		indentStr: "\t",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *OneScriptEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *OneScriptEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if node == nil {
		return nil, errors.New("nothing to format")
	}
	if node.HasErrors() {
		return nil, ErrSyntax
	}

	e.out.Reset()
	e.indent = 0
	e.commentIndex = 0
	e.lang = e.resolveLanguage(node)

	if node.Kind == parser.KindSourceFile {
		e.printSourceFile(node)
	} else {
		e.out.WriteString(e.expr(node))
		e.out.WriteString("\n")
	}
	e.emitRemainingComments()

	return []byte(e.out.String()), nil
}

// PrettyPrint parses source and prints it in canonical form.
func PrettyPrint(source []byte, opts ...PrinterOption) ([]byte, error) {
	return PrettyPrintFile(source, "", opts...)
}

func PrettyPrintFile(source []byte, filename string, opts ...PrinterOption) ([]byte, error) {
	parseOpts := []parser.Option{parser.WithComments()}
	if filename != "" {
		parseOpts = append(parseOpts, parser.WithFile(filename))
	}
	p := parser.ParseSourceFile(bytes.NewReader(source), parseOpts...)
	node := p.Finish()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	opts = append([]PrinterOption{WithSource(source, p.Comments())}, opts...)
	out, err := NewOneScriptEncoder(nil, opts...).MarshalText(node)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(source, byteOrderMark) {
		out = append(append([]byte{}, byteOrderMark...), out...)
	}
	return out, nil
}

// A byte order mark at the start of the source is kept in the output.
var byteOrderMark = []byte("\xEF\xBB\xBF")

// resolveLanguage picks the output alphabet. In keep mode the majority of
// keyword spellings decides; ties go to English.
func (e *OneScriptEncoder) resolveLanguage(node *parser.Node) parser.Language {
	switch e.language {
	case LanguageEnglish:
		return parser.English
	case LanguageRussian:
		return parser.Russian
	}

	var counts [2]int
	if e.source != nil {
		for _, tok := range parser.Tokenize(e.source, "") {
			if len(parser.Lookup(tok.Literal)) > 0 {
				counts[parser.LanguageOf(tok.Literal)]++
			}
		}
	} else {
		node.Walk(func(n *parser.Node) bool {
			if n.Keyword != parser.KeywordNone && n.Token != nil {
				counts[parser.LanguageOf(n.Token.Literal)]++
			}
			return true
		})
	}
	if counts[parser.Russian] > counts[parser.English] {
		return parser.Russian
	}
	return parser.English
}

func (e *OneScriptEncoder) kw(k parser.Keyword) string {
	if k == parser.KeywordForEach {
		return e.kw(parser.KeywordFor) + " " + e.kw(parser.KeywordEach)
	}
	return k.Spelling(e.lang)
}

func (e *OneScriptEncoder) line(text string) {
	for i := 0; i < e.indent; i++ {
		e.out.WriteString(e.indentStr)
	}
	e.out.WriteString(text)
	e.out.WriteString("\n")
}

func (e *OneScriptEncoder) separate() {
	if e.out.Len() > 0 {
		e.out.WriteString("\n")
	}
}

// emitCommentsBefore prints the comments that start on a line before line.
func (e *OneScriptEncoder) emitCommentsBefore(line int) {
	for e.commentIndex < len(e.comments) && e.comments[e.commentIndex].Span.Start.Line < line {
		e.line(strings.TrimRight(e.comments[e.commentIndex].Literal, " \t\r"))
		e.commentIndex++
	}
}

func (e *OneScriptEncoder) emitRemainingComments() {
	e.indent = 0
	for e.commentIndex < len(e.comments) {
		e.line(strings.TrimRight(e.comments[e.commentIndex].Literal, " \t\r"))
		e.commentIndex++
	}
}

func (e *OneScriptEncoder) printSourceFile(node *parser.Node) {
	for _, section := range node.Children {
		switch section.Kind {
		case parser.KindModuleVarBlock:
			e.separate()
			for _, decl := range section.Children {
				e.printVarDecl(decl)
			}
		case parser.KindMethodBlock:
			for _, method := range section.Children {
				e.separate()
				e.printMethod(method)
			}
		case parser.KindCodeBlock:
			if len(section.Children) > 0 {
				e.separate()
				e.printStatements(section)
			}
		}
	}
}

func (e *OneScriptEncoder) printAnnotations(node *parser.Node) {
	for _, a := range node.ChildrenOfKind(parser.KindAnnotation) {
		e.emitCommentsBefore(a.Span.Start.Line)
		e.line(e.annotation(a))
	}
}

func (e *OneScriptEncoder) annotation(a *parser.Node) string {
	var b strings.Builder
	b.WriteString("&")
	b.WriteString(a.Name())
	params := a.ChildrenOfKind(parser.KindAnnotationParam)
	if len(params) > 0 {
		b.WriteString("(")
		for i, param := range params {
			if i > 0 {
				b.WriteString(", ")
			}
			name := param.ChildByField(parser.FieldName)
			value := param.ChildByField(parser.FieldValue)
			if name != nil {
				b.WriteString(name.TokenLiteral())
				if value != nil {
					b.WriteString(" = ")
				}
			}
			if value != nil {
				b.WriteString(e.expr(value))
			}
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *OneScriptEncoder) printVarDecl(decl *parser.Node) {
	e.printAnnotations(decl)
	e.emitCommentsBefore(decl.Span.Start.Line)

	var names []string
	for _, child := range decl.Children {
		if child.Field == parser.FieldName {
			names = append(names, child.TokenLiteral())
		}
	}
	e.line(e.kw(parser.KeywordVar) + " " + strings.Join(names, ", ") + e.export(decl) + ";")
}

func (e *OneScriptEncoder) export(node *parser.Node) string {
	if node.IsExported() {
		return " " + e.kw(parser.KeywordExport)
	}
	return ""
}

func (e *OneScriptEncoder) printMethod(method *parser.Node) {
	opener, closer, nameField := parser.KeywordProcedure, parser.KeywordEndProcedure, parser.FieldProcName
	if method.Kind == parser.KindFuncDecl {
		opener, closer, nameField = parser.KeywordFunction, parser.KeywordEndFunction, parser.FieldFuncName
	}

	e.emitCommentsBefore(method.Span.Start.Line)
	e.printAnnotations(method)

	var args []string
	if list := method.FirstChildOfKind(parser.KindArgumentList); list != nil {
		for _, arg := range list.ChildrenOfKind(parser.KindArgument) {
			args = append(args, e.argument(arg))
		}
	}
	name := method.ChildByField(nameField).TokenLiteral()
	e.line(e.kw(opener) + " " + name + "(" + strings.Join(args, ", ") + ")" + e.export(method))

	e.indent++
	if vars := method.FirstChildOfKind(parser.KindVarBlock); vars != nil {
		for _, decl := range vars.Children {
			e.printVarDecl(decl)
		}
	}
	if body := method.ChildByField(parser.FieldBody); body != nil {
		e.printStatements(body)
	}
	e.emitCommentsBefore(method.Span.End.Line)
	e.indent--
	e.line(e.kw(closer))
}

func (e *OneScriptEncoder) argument(arg *parser.Node) string {
	var b strings.Builder
	for _, a := range arg.ChildrenOfKind(parser.KindAnnotation) {
		b.WriteString(e.annotation(a))
		b.WriteString(" ")
	}
	if arg.IsByValue() {
		b.WriteString(e.kw(parser.KeywordVal))
		b.WriteString(" ")
	}
	b.WriteString(arg.Name())
	if def := arg.ChildByField(parser.FieldDefault); def != nil {
		b.WriteString(" = ")
		b.WriteString(e.expr(def))
	}
	return b.String()
}

func (e *OneScriptEncoder) printStatements(block *parser.Node) {
	for _, stmt := range block.Children {
		e.printStatement(stmt)
	}
}

// printBlock prints block one level deeper, followed by the comments that
// precede the line the block ends on.
func (e *OneScriptEncoder) printBlock(block *parser.Node, endLine int) {
	e.indent++
	if block != nil {
		e.printStatements(block)
	}
	e.emitCommentsBefore(endLine)
	e.indent--
}

func (e *OneScriptEncoder) printStatement(stmt *parser.Node) {
	e.emitCommentsBefore(stmt.Span.Start.Line)

	switch stmt.Kind {
	case parser.KindEmptyStmt:
		e.line(";")

	case parser.KindAssignment:
		target := stmt.ChildByField(parser.FieldTarget)
		value := stmt.ChildByField(parser.FieldValue)
		e.line(e.expr(target) + " = " + e.expr(value) + ";")

	case parser.KindCallStmt:
		e.line(e.expr(stmt.Children[0]) + ";")

	case parser.KindIfStmt:
		e.printIf(stmt)

	case parser.KindWhileLoop:
		e.line(e.kw(parser.KeywordWhile) + " " + e.exprAfterWord(stmt.ChildByField(parser.FieldCondition)) + " " + e.kw(parser.KeywordDo))
		e.printBlock(stmt.ChildByField(parser.FieldBody), stmt.Span.End.Line)
		e.line(e.kw(parser.KeywordEndWhile) + ";")

	case parser.KindForLoop:
		e.line(e.kw(parser.KeywordFor) + " " + stmt.ChildByField(parser.FieldVariable).TokenLiteral() +
			" = " + e.expr(stmt.ChildByField(parser.FieldFrom)) +
			" " + e.kw(parser.KeywordTo) + " " + e.exprAfterWord(stmt.ChildByField(parser.FieldTo)) +
			" " + e.kw(parser.KeywordDo))
		e.printBlock(stmt.ChildByField(parser.FieldBody), stmt.Span.End.Line)
		e.line(e.kw(parser.KeywordEndDo) + ";")

	case parser.KindForEachLoop:
		e.line(e.kw(parser.KeywordForEach) + " " + stmt.ChildByField(parser.FieldVariable).TokenLiteral() +
			" " + e.kw(parser.KeywordIn) + " " + e.exprAfterWord(stmt.ChildByField(parser.FieldIterable)) +
			" " + e.kw(parser.KeywordDo))
		e.printBlock(stmt.ChildByField(parser.FieldBody), stmt.Span.End.Line)
		e.line(e.kw(parser.KeywordEndDo) + ";")

	case parser.KindTryStmt:
		except := stmt.FirstChildOfKind(parser.KindExceptClause)
		e.line(e.kw(parser.KeywordTry))
		e.printBlock(stmt.ChildByField(parser.FieldBody), except.Span.Start.Line)
		e.line(e.kw(parser.KeywordExcept))
		e.printBlock(except.ChildByField(parser.FieldBody), stmt.Span.End.Line)
		e.line(e.kw(parser.KeywordEndTry) + ";")

	case parser.KindReturnStmt, parser.KindRaiseStmt:
		kw := parser.KeywordReturn
		if stmt.Kind == parser.KindRaiseStmt {
			kw = parser.KeywordRaise
		}
		text := e.kw(kw)
		if value := stmt.ChildByField(parser.FieldValue); value != nil {
			text += " " + e.exprAfterWord(value)
		}
		e.line(text + ";")

	case parser.KindBreakStmt:
		e.line(e.kw(parser.KeywordBreak) + ";")

	case parser.KindContinueStmt:
		e.line(e.kw(parser.KeywordContinue) + ";")

	case parser.KindAddHandlerStmt, parser.KindRemoveHandlerStmt:
		kw := parser.KeywordAddHandler
		if stmt.Kind == parser.KindRemoveHandlerStmt {
			kw = parser.KeywordRemoveHandler
		}
		e.line(e.kw(kw) + " " + e.exprAfterWord(stmt.ChildByField(parser.FieldEvent)) + ", " + e.expr(stmt.ChildByField(parser.FieldHandler)) + ";")
	}
}

func (e *OneScriptEncoder) printIf(stmt *parser.Node) {
	clauses := stmt.ChildrenOfKind(parser.KindElsIfClause)
	elseClause := stmt.ChildByField(parser.FieldElse)

	// Each block ends where the next clause starts.
	var ends []int
	for _, c := range clauses {
		ends = append(ends, c.Span.Start.Line)
	}
	if elseClause != nil {
		ends = append(ends, elseClause.Span.Start.Line)
	}
	ends = append(ends, stmt.Span.End.Line)

	e.line(e.kw(parser.KeywordIf) + " " + e.exprAfterWord(stmt.ChildByField(parser.FieldCondition)) + " " + e.kw(parser.KeywordThen))
	e.printBlock(stmt.ChildByField(parser.FieldBody), ends[0])

	for i, c := range clauses {
		e.line(e.kw(parser.KeywordElsIf) + " " + e.exprAfterWord(c.ChildByField(parser.FieldCondition)) + " " + e.kw(parser.KeywordThen))
		e.printBlock(c.ChildByField(parser.FieldBody), ends[i+1])
	}
	if elseClause != nil {
		e.line(e.kw(parser.KeywordElse))
		e.printBlock(elseClause.ChildByField(parser.FieldBody), ends[len(ends)-1])
	}
	e.line(e.kw(parser.KeywordEndIf) + ";")
}

// exprAfterWord prints n where it follows a keyword. A sign there is lexed
// as an operator, so a leading sign needs no space before a digit.
func (e *OneScriptEncoder) exprAfterWord(n *parser.Node) string {
	e.afterWord = true
	return e.expr(n)
}

func (e *OneScriptEncoder) expr(n *parser.Node) string {
	afterWord := e.afterWord
	e.afterWord = false

	switch n.Kind {
	case parser.KindIdentifier:
		return n.TokenLiteral()

	case parser.KindLiteral, parser.KindOperator:
		if n.Keyword != parser.KeywordNone {
			return e.kw(n.Keyword)
		}
		return n.TokenLiteral()

	case parser.KindBinaryExpr:
		e.afterWord = afterWord
		return e.expr(n.ChildByField(parser.FieldLeft)) + " " +
			e.expr(n.ChildByField(parser.FieldOperator)) + " " +
			e.expr(n.ChildByField(parser.FieldRight))

	case parser.KindUnaryExpr:
		op := n.ChildByField(parser.FieldOperator)
		operand := e.expr(n.ChildByField(parser.FieldOperand))
		// A sign directly before another sign, or before a digit where an
		// operand cannot end, would lex as part of a number.
		signed := strings.IndexAny(operand, "+-") == 0
		digit := strings.IndexAny(operand, "0123456789") == 0
		if op.Keyword == parser.KeywordNot || signed || (digit && !afterWord) {
			return e.expr(op) + " " + operand
		}
		return e.expr(op) + operand

	case parser.KindParenExpr:
		return "(" + e.expr(n.Children[0]) + ")"

	case parser.KindTernaryExpr:
		return "?(" + e.expr(n.ChildByField(parser.FieldCondition)) + ", " +
			e.expr(n.ChildByField(parser.FieldThen)) + ", " +
			e.expr(n.ChildByField(parser.FieldElse)) + ")"

	case parser.KindNewExpr:
		typeName := n.ChildByField(parser.FieldTypeName)
		args := n.ChildByField(parser.FieldArguments)
		if typeName.Kind == parser.KindLiteral || args != nil {
			text := e.kw(parser.KeywordNew) + "(" + e.expr(typeName)
			if args != nil {
				text += ", " + e.expr(args)
			}
			return text + ")"
		}
		return e.kw(parser.KeywordNew) + " " + e.expr(typeName)

	case parser.KindMemberExpr:
		return e.expr(n.ChildByField(parser.FieldObject)) + "." + n.ChildByField(parser.FieldProperty).TokenLiteral()

	case parser.KindIndexExpr:
		return e.expr(n.ChildByField(parser.FieldObject)) + "[" + e.expr(n.ChildByField(parser.FieldIndex)) + "]"

	case parser.KindCallExpr:
		return e.expr(n.ChildByField(parser.FieldObject)) + e.expr(n.ChildByField(parser.FieldArguments))

	case parser.KindCallArgs:
		args := make([]string, len(n.Children))
		for i, arg := range n.Children {
			args[i] = e.expr(arg)
		}
		return "(" + strings.Join(args, ", ") + ")"

	case parser.KindEmptyArg:
		return ""
	}
	return ""
}
