package parser

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer turns OneScript source into tokens, trivia included. It never
// resolves keywords other than the four literal ones.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	// last is the kind of the last non-trivia token, used to decide whether
	// a sign belongs to a number.
	last TokenKind
}

// byteOrderMark may start a source file saved by Windows editors.
var byteOrderMark = []byte("\xEF\xBB\xBF")

// NewLexer skips a leading byte order mark. Offsets still index input, so
// the first token of such a file starts at offset 3, column 1.
func NewLexer(input []byte, file string) *Lexer {
	l := &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
		last:   TokenEOF,
	}
	if bytes.HasPrefix(input, byteOrderMark) {
		l.pos = len(byteOrderMark)
	}
	return l
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token, including whitespace, comments and
// preprocessor lines.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	if !tok.Kind.IsTrivia() {
		l.last = tok.Kind
	}
	return tok
}

func (l *Lexer) scan() Token {
	startPos := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if isSpace(l.peekRune()) {
		return l.scanWhitespace(startPos)
	}
	if ch == '/' && l.peekN(1) == '/' {
		return l.scanToEndOfLine(TokenComment, startPos)
	}
	if ch == '#' {
		return l.scanToEndOfLine(TokenPreprocessor, startPos)
	}
	if isIdentStart(l.peekRune()) {
		return l.scanIdent(startPos)
	}
	if isDigit(ch) {
		return l.scanNumber(startPos)
	}
	if (ch == '+' || ch == '-') && isDigit(l.peekN(1)) && !l.last.endsOperand() {
		l.advance()
		return l.scanNumber(startPos)
	}
	if ch == '"' {
		return l.scanString(startPos)
	}
	if ch == '\'' {
		return l.scanDate(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for !l.atEOF() && isSpace(l.peekRune()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanToEndOfLine(kind TokenKind, start Position) Token {
	for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIdent(start Position) Token {
	for isIdentPart(l.peekRune()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	if kind, ok := lookupLiteral(tok.Literal); ok {
		tok.Kind = kind
	}
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.token(TokenNumber, start)
}

// scanString reads a quoted string. A line that ends inside the string
// continues on the next line that starts with '|'.
func (l *Lexer) scanString(start Position) Token {
	l.advance()
	for {
		switch {
		case l.peek() == '"' && l.peekN(1) == '"':
			l.advanceN(2)
		case l.peek() == '"':
			l.advance()
			return l.token(TokenString, start)
		case l.atEOF() || l.peek() == '\n' || l.peek() == '\r':
			if !l.continueString() {
				return l.errorToken(start, "unterminated string literal")
			}
		default:
			l.advance()
		}
	}
}

// continueString moves past the line break, blank lines and comment lines
// to the '|' that continues a string. The position is left untouched when
// no continuation follows.
func (l *Lexer) continueString() bool {
	savedPos, savedLine, savedColumn := l.pos, l.line, l.column
	for !l.atEOF() {
		switch {
		case isSpace(l.peekRune()):
			l.advance()
		case l.peek() == '/' && l.peekN(1) == '/':
			for !l.atEOF() && l.peek() != '\n' {
				l.advance()
			}
		case l.peek() == '|':
			l.advance()
			return true
		default:
			l.pos, l.line, l.column = savedPos, savedLine, savedColumn
			return false
		}
	}
	l.pos, l.line, l.column = savedPos, savedLine, savedColumn
	return false
}

func (l *Lexer) scanDate(start Position) Token {
	l.advance()
	digits := 0
	for isDigit(l.peek()) {
		l.advance()
		digits++
	}
	if l.peek() != '\'' {
		for !l.atEOF() && l.peek() != '\'' && l.peek() != '\n' {
			l.advance()
		}
		if l.peek() != '\'' {
			return l.errorToken(start, "unterminated date literal")
		}
		l.advance()
		return l.errorToken(start, "date literal must contain only digits")
	}
	l.advance()
	if digits < 8 || digits > 14 {
		return l.errorToken(start, fmt.Sprintf("date literal must have 8 to 14 digits, got %d", digits))
	}
	return l.token(TokenDate, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case '.':
		l.advance()
		return l.token(TokenDot, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)
	case '&':
		l.advance()
		return l.token(TokenAmpersand, start)
	case '=':
		l.advance()
		return l.token(TokenEQ, start)
	case '<':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)
	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)
	case '%':
		l.advance()
		return l.token(TokenPercent, start)
	}

	r := l.advance()
	return l.errorToken(start, fmt.Sprintf("unexpected character %q (U+%04X)", r, r))
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) errorToken(start Position, msg string) Token {
	tok := l.token(TokenError, start)
	tok.Message = msg
	return tok
}

// Tokenize returns every significant token of src, ending with TokenEOF.
func Tokenize(src []byte, file string) []Token {
	lexer := NewLexer(src, file)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind.IsTrivia() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// isSpace accepts Unicode white space, including the no-break space.
func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= 'А' && r <= 'я') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
