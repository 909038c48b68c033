package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether other lies completely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenPreprocessor

	// Literals
	TokenIdent
	TokenNumber
	TokenString
	TokenDate
	TokenNull
	TokenUndefined
	TokenTrue
	TokenFalse

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenDot
	TokenQuestion
	TokenAmpersand

	// Operators
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenWhitespace:   "Whitespace",
	TokenComment:      "Comment",
	TokenPreprocessor: "Preprocessor",
	TokenIdent:        "Identifier",
	TokenNumber:       "Number",
	TokenString:       "String",
	TokenDate:         "Date",
	TokenNull:         "Null",
	TokenUndefined:    "Undefined",
	TokenTrue:         "True",
	TokenFalse:        "False",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenComma:        ",",
	TokenSemicolon:    ";",
	TokenDot:          ".",
	TokenQuestion:     "?",
	TokenAmpersand:    "&",
	TokenEQ:           "=",
	TokenNE:           "<>",
	TokenLT:           "<",
	TokenLE:           "<=",
	TokenGT:           ">",
	TokenGE:           ">=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind are dropped before parsing.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment || k == TokenPreprocessor
}

// IsLiteral reports whether the kind is a constant value.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenNumber, TokenString, TokenDate, TokenNull, TokenUndefined, TokenTrue, TokenFalse:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	// Message describes the problem for TokenError.
	Message string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Kind, t.Literal)
}

// endsOperand reports whether a token of this kind can be the last token of
// an operand. A sign that follows such a token is a binary operator.
func (k TokenKind) endsOperand() bool {
	switch k {
	case TokenIdent, TokenNumber, TokenString, TokenDate,
		TokenNull, TokenUndefined, TokenTrue, TokenFalse,
		TokenRParen, TokenRBracket:
		return true
	}
	return false
}
