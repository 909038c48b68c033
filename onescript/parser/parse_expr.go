package parser

import "fmt"

// Binding powers, lowest first. Unary operators bind tighter than every
// binary operator; postfix member access binds tighter still.
const (
	precNone = iota
	precOr
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precUnary
)

// binaryOperator returns the binding power of the current token when it is
// a binary operator, and the keyword for And/Or.
func (p *Parser) binaryOperator() (int, Keyword) {
	tok := p.peek()
	switch tok.Kind {
	case TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE:
		return precRelational, KeywordNone
	case TokenPlus, TokenMinus:
		return precAdditive, KeywordNone
	case TokenStar, TokenSlash, TokenPercent:
		return precMultiplicative, KeywordNone
	case TokenIdent:
		if Is(tok.Literal, KeywordOr) {
			return precOr, KeywordOr
		}
		if Is(tok.Literal, KeywordAnd) {
			return precAnd, KeywordAnd
		}
	}
	return precNone, KeywordNone
}

func (p *Parser) parseExpression() *Node {
	return p.parseBinaryExpr(precOr)
}

// parseBinaryExpr climbs the precedence table: operands are parsed with a
// binding power one above the operator's, which makes every level
// left-associative.
func (p *Parser) parseBinaryExpr(minPrec int) *Node {
	left := p.parseUnaryExpr()

	for {
		prec, kw := p.binaryOperator()
		if prec == precNone || prec < minPrec {
			return left
		}
		node := p.wrap(KindBinaryExpr, left, FieldLeft)
		op := p.leaf(KindOperator, p.advance())
		op.Keyword = kw
		node.AddField(FieldOperator, op)
		node.AddField(FieldRight, p.parseBinaryExpr(prec+1))
		left = p.finishNode(node)
	}
}

func (p *Parser) parseUnaryExpr() *Node {
	if p.match(TokenMinus, TokenPlus) || p.atKeyword(KeywordNot) {
		node := p.startNode(KindUnaryExpr)
		kw := KeywordNone
		if p.atKeyword(KeywordNot) {
			kw = KeywordNot
		}
		op := p.leaf(KindOperator, p.advance())
		op.Keyword = kw
		node.AddField(FieldOperator, op)
		node.AddField(FieldOperand, p.parseUnaryExpr())
		return p.finishNode(node)
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenNumber, TokenString, TokenDate:
		return p.leaf(KindLiteral, p.advance())
	case TokenNull, TokenUndefined, TokenTrue, TokenFalse:
		n := p.leaf(KindLiteral, p.advance())
		n.Keyword = literalKeyword(tok.Kind)
		return n
	case TokenLParen:
		return p.parseParenExpr()
	case TokenQuestion:
		return p.parseTernaryExpr()
	case TokenIdent:
		if p.atKeyword(KeywordNew) {
			return p.parseNewExpr()
		}
		return p.parseMemberAccess()
	case TokenRParen, TokenRBracket, TokenComma, TokenSemicolon, TokenEOF:
		return p.errorNode(p.unexpected("expression"), "expression")
	}

	// Consume the offending token so the enclosing construct can go on.
	errNode := p.errorNode(p.unexpected("expression"), "expression")
	if errNode.Token == nil {
		p.advance()
		errNode.Span.End = tok.Span.End
	}
	return errNode
}

func literalKeyword(kind TokenKind) Keyword {
	switch kind {
	case TokenNull:
		return KeywordNull
	case TokenUndefined:
		return KeywordUndefined
	case TokenTrue:
		return KeywordTrue
	case TokenFalse:
		return KeywordFalse
	}
	return KeywordNone
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(KindParenExpr)
	p.advance()
	node.AddChild(p.parseExpression())
	p.expectToken(node, TokenRParen)
	return p.finishNode(node)
}

// parseTernaryExpr parses ?(condition, then, else).
func (p *Parser) parseTernaryExpr() *Node {
	node := p.startNode(KindTernaryExpr)
	p.advance()
	if !p.expectToken(node, TokenLParen) {
		return p.finishNode(node)
	}
	node.AddField(FieldCondition, p.parseExpression())
	p.expectToken(node, TokenComma)
	node.AddField(FieldThen, p.parseExpression())
	p.expectToken(node, TokenComma)
	node.AddField(FieldElse, p.parseExpression())
	p.expectToken(node, TokenRParen)
	return p.finishNode(node)
}

// parseNewExpr parses both forms of New: "New Type(args)" where the type
// is a member access, and "New(TypeName[, arg])" where the name is an
// identifier or a string.
func (p *Parser) parseNewExpr() *Node {
	node := p.startNode(KindNewExpr)
	p.advance()

	if p.check(TokenLParen) {
		p.advance()
		switch p.peek().Kind {
		case TokenIdent:
			node.AddField(FieldTypeName, p.leaf(KindIdentifier, p.advance()))
		case TokenString:
			node.AddField(FieldTypeName, p.leaf(KindLiteral, p.advance()))
		default:
			node.AddChild(p.errorNode(p.unexpected("type name"), TokenIdent.String(), TokenString.String()))
		}
		if p.check(TokenComma) {
			p.advance()
			node.AddField(FieldArguments, p.parseExpression())
		}
		p.expectToken(node, TokenRParen)
		return p.finishNode(node)
	}

	if p.check(TokenIdent) {
		node.AddField(FieldTypeName, p.parseMemberAccess())
	} else {
		node.AddChild(p.errorNode(p.unexpected("type name after New"), TokenIdent.String()))
	}
	return p.finishNode(node)
}

// parseMemberAccess parses an identifier followed by any number of .member,
// [index] and (args) suffixes. The chain is built in a loop so long chains
// do not grow the stack.
func (p *Parser) parseMemberAccess() *Node {
	expr := p.leaf(KindIdentifier, p.advance())

	for {
		switch p.peek().Kind {
		case TokenDot:
			node := p.wrap(KindMemberExpr, expr, FieldObject)
			p.advance()
			if p.isIdentifierLike() {
				node.AddField(FieldProperty, p.leaf(KindIdentifier, p.advance()))
			} else {
				node.AddChild(p.errorNode(p.unexpected("member name"), TokenIdent.String()))
			}
			expr = p.finishNode(node)
		case TokenLBracket:
			node := p.wrap(KindIndexExpr, expr, FieldObject)
			p.advance()
			node.AddField(FieldIndex, p.parseExpression())
			p.expectToken(node, TokenRBracket)
			expr = p.finishNode(node)
		case TokenLParen:
			node := p.wrap(KindCallExpr, expr, FieldObject)
			node.AddField(FieldArguments, p.parseCallArgs())
			expr = p.finishNode(node)
		default:
			return expr
		}
	}
}

// parseCallArgs parses a parenthesized argument list. Arguments may be
// omitted between commas: f(a, , b) has an empty second argument.
func (p *Parser) parseCallArgs() *Node {
	node := p.startNode(KindCallArgs)
	p.advance()

	if !p.check(TokenRParen) {
		for {
			if p.match(TokenComma, TokenRParen) {
				empty := p.startNode(KindEmptyArg)
				node.AddChild(empty)
			} else {
				node.AddChild(p.parseExpression())
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}

	p.expectToken(node, TokenRParen)
	return p.finishNode(node)
}

// wrap starts a node at inner's position with inner as its first child.
func (p *Parser) wrap(kind NodeKind, inner *Node, field string) *Node {
	node := &Node{Kind: kind, Span: inner.Span}
	node.AddField(field, inner)
	return node
}

func (p *Parser) parseStandaloneExpression() *Node {
	expr := p.parseExpression()
	if p.check(TokenEOF) {
		return expr
	}

	tok := p.peek()
	msg := fmt.Sprintf("unexpected %q after expression", tok.Literal)
	if tok.Kind != TokenError {
		p.report(Syntax, tok.Span, msg)
	}
	for !p.check(TokenEOF) {
		p.advance()
	}
	root := &Node{
		Kind:  KindError,
		Span:  expr.Span,
		Error: &Error{Message: msg, Got: &tok},
	}
	root.AddChild(expr)
	return p.finishNode(root)
}
