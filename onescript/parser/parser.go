package parser

import (
	"fmt"
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

type parseFunc func(*Parser) *Node

// Parser parses one source unit. It is not safe for concurrent use; create
// one Parser per source.
type Parser struct {
	file             string
	includeComments  bool
	includePositions bool
	reader           io.Reader
	input            []byte
	readErr          error
	lexer            *Lexer
	tokens           []Token
	comments         []Token
	pos              int
	entry            parseFunc
	incomplete       bool
	diagnostics      []Diagnostic
	lastErrorLine    int
	result           *Node
	finished         bool
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

// Comments returns the comment and preprocessor tokens seen by the last
// Finish when WithComments was given.
func (p *Parser) Comments() []Token {
	return p.comments
}

// ParseSourceFile prepares a parser for a complete source file.
func ParseSourceFile(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseSourceFile, opts)
}

// ParseExpression prepares a parser for a single expression.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseStandaloneExpression, opts)
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) readAll() error {
	if p.input != nil || p.readErr != nil {
		return p.readErr
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		p.readErr = fmt.Errorf("read source: %w", err)
		return p.readErr
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// IsComplete reports whether the input parses without running into the end
// of input, e.g. "1 +" or an If without EndIf is incomplete.
func (p *Parser) IsComplete() bool {
	if p.Finish() == nil {
		return false
	}
	return !p.incomplete
}

// Finish parses the whole input and returns the tree. The tree is always
// returned, even when diagnostics were produced; it is nil only when the
// input could not be read. Repeated calls return the same tree.
func (p *Parser) Finish() *Node {
	if p.finished {
		return p.result
	}
	p.finished = true
	if err := p.readAll(); err != nil {
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.comments = nil
	p.diagnostics = nil
	p.pos = 0
	p.incomplete = false
	p.lastErrorLine = 0
	p.tokenize()
	p.result = p.entry(p)
	sortDiagnostics(p.diagnostics)
	return p.result
}

// Diagnostics returns every problem found by Finish, ordered by position.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// Err returns nil only when the source parsed cleanly.
func (p *Parser) Err() error {
	if p.readErr != nil {
		return p.readErr
	}
	if len(p.diagnostics) > 0 {
		return ErrorList(p.diagnostics)
	}
	return nil
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.readErr = nil
	p.lexer = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.incomplete = false
	p.diagnostics = nil
	p.lastErrorLine = 0
	p.result = nil
	p.finished = false
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenPreprocessor {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		if tok.Kind == TokenError {
			p.diagnostics = append(p.diagnostics, Diagnostic{
				Severity: SeverityError,
				Kind:     Lexical,
				Message:  tok.Message,
				Span:     tok.Span,
			})
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// atKeyword reports whether the current token spells kw.
func (p *Parser) atKeyword(kw Keyword) bool {
	return p.atKeywordN(0, kw)
}

func (p *Parser) atKeywordN(n int, kw Keyword) bool {
	tok := p.peekN(n)
	return tok.Kind == TokenIdent && Is(tok.Literal, kw)
}

func (p *Parser) atAnyKeyword(kws ...Keyword) bool {
	for _, kw := range kws {
		if p.atKeyword(kw) {
			return true
		}
	}
	return false
}

// atClosingKeyword reports whether the current token ends or splits a block.
func (p *Parser) atClosingKeyword() bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && isClosingKeyword(tok.Literal)
}

// atForEach reports whether For Each <ident> starts here. "For each = 1"
// is a counted loop over a variable named each.
func (p *Parser) atForEach() bool {
	return p.atKeyword(KeywordFor) && p.atKeywordN(1, KeywordEach) &&
		p.peekN(2).Kind == TokenIdent && p.peekN(3).Kind != TokenEQ
}

// isIdentifierLike reports whether the current token can be used as a name
// after a dot, where literal keywords are plain member names.
func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenNull, TokenUndefined, TokenTrue, TokenFalse:
		return true
	}
	return false
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start, End: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		end := p.tokens[p.pos-1].Span.End
		if end.Offset >= n.Span.Start.Offset {
			n.Span.End = end
		}
	}
	for _, child := range n.Children {
		if child.Span.End.Offset > n.Span.End.Offset {
			n.Span.End = child.Span.End
		}
	}
	return n
}

func (p *Parser) leaf(kind NodeKind, tok Token) *Node {
	t := tok
	return &Node{Kind: kind, Token: &t, Span: tok.Span}
}

// keywordLeaf consumes the current keyword token as an operator node.
func (p *Parser) keywordLeaf(kw Keyword) *Node {
	n := p.leaf(KindOperator, p.advance())
	n.Keyword = kw
	return n
}

func (p *Parser) report(kind DiagnosticKind, span Span, msg string, expected ...string) {
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Message:  msg,
		Span:     span,
		Expected: expected,
	})
}

// syntaxError reports a syntax error unless one was already reported on the
// same line; follow-up errors on one line are almost always spurious.
func (p *Parser) syntaxError(span Span, msg string, expected ...string) {
	if p.lastErrorLine == span.Start.Line {
		return
	}
	p.lastErrorLine = span.Start.Line
	p.report(Syntax, span, msg, expected...)
}

// errorNode creates an error node at the current token and reports it. An
// error token from the lexer is consumed into the node without a second
// diagnostic, since the lexer already reported it.
func (p *Parser) errorNode(msg string, expected ...string) *Node {
	tok := p.peek()
	if tok.Kind == TokenError {
		p.advance()
		return &Node{
			Kind:  KindError,
			Span:  tok.Span,
			Token: &tok,
			Error: &Error{Message: tok.Message, Got: &tok},
		}
	}
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	got := tok
	p.syntaxError(tok.Span, msg, expected...)
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Expected: expected, Got: &got},
	}
}

// pairingError creates an error node for a block that is not closed by
// its own keyword. Unlike errorNode it always reports, since an earlier
// error on the same line says nothing about the missing closer.
func (p *Parser) pairingError(msg string, expected ...string) *Node {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	got := tok
	p.lastErrorLine = tok.Span.Start.Line
	p.report(Syntax, tok.Span, msg, expected...)
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Expected: expected, Got: &got},
	}
}

// unexpected builds the message for a token that does not fit.
func (p *Parser) unexpected(what string) string {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		return fmt.Sprintf("expected %s, got end of file", what)
	}
	return fmt.Sprintf("expected %s, got %q", what, tok.Literal)
}

// expectToken consumes a token of the given kind or adds an error node to
// parent.
func (p *Parser) expectToken(parent *Node, kind TokenKind) bool {
	if p.expect(kind) != nil {
		return true
	}
	what := "'" + kind.String() + "'"
	parent.AddChild(p.errorNode(p.unexpected(what), kind.String()))
	return false
}

// expectKeyword consumes kw or adds an error node to parent. Nothing is
// consumed on failure, so an enclosing construct can still claim the token.
func (p *Parser) expectKeyword(parent *Node, kws ...Keyword) bool {
	for _, kw := range kws {
		if p.atKeyword(kw) {
			p.advance()
			return true
		}
	}
	parent.AddChild(p.errorNode(p.unexpected(keywordList(kws)), keywordNames(kws)...))
	return false
}

// expectIdentifier consumes an identifier and returns it as a leaf carrying
// field, or adds an error node to parent.
func (p *Parser) expectIdentifier(parent *Node, field string) bool {
	if p.check(TokenIdent) {
		parent.AddField(field, p.leaf(KindIdentifier, p.advance()))
		return true
	}
	parent.AddChild(p.errorNode(p.unexpected("identifier"), TokenIdent.String()))
	return false
}

// synchronize skips tokens until a point where parsing a statement can
// resume: after a ';', or before a keyword that starts or closes a block.
// The skipped tokens are appended to errNode's span.
func (p *Parser) synchronize(errNode *Node) {
	for !p.check(TokenEOF) {
		if p.check(TokenSemicolon) {
			p.advance()
			break
		}
		if p.atClosingKeyword() || p.atStatementKeyword() || p.atDeclarationStart() {
			break
		}
		p.advance()
	}
	if p.pos > 0 && errNode != nil {
		end := p.tokens[p.pos-1].Span.End
		if end.Offset > errNode.Span.End.Offset {
			errNode.Span.End = end
		}
	}
}

// skipPast consumes tokens through the next token of the given kind, as long
// as it comes before the end of the statement. It reports whether it did.
func (p *Parser) skipPast(kind TokenKind) bool {
	for i := p.pos; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if tok.Kind == kind {
			p.pos = i
			p.advance()
			return true
		}
		if tok.Kind == TokenEOF || tok.Kind == TokenSemicolon {
			return false
		}
		if tok.Kind == TokenIdent && (isClosingKeyword(tok.Literal) ||
			Is(tok.Literal, KeywordFunction) || Is(tok.Literal, KeywordProcedure)) {
			return false
		}
	}
	return false
}

func keywordNames(kws []Keyword) []string {
	names := make([]string, len(kws))
	for i, kw := range kws {
		names[i] = kw.String()
	}
	return names
}

func keywordList(kws []Keyword) string {
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = "'" + kw.String() + "'"
	}
	return strings.Join(quoted, " or ")
}
