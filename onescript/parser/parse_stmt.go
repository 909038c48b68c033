package parser

import "fmt"

// statementKeywords open a statement.
var statementKeywords = []Keyword{
	KeywordIf, KeywordWhile, KeywordFor, KeywordTry,
	KeywordReturn, KeywordRaise, KeywordBreak, KeywordContinue,
	KeywordAddHandler, KeywordRemoveHandler, KeywordVar,
}

func (p *Parser) atStatementKeyword() bool {
	return p.atAnyKeyword(statementKeywords...)
}

// atDeclarationStart reports whether a method or an annotation starts here.
// Both end a code block.
func (p *Parser) atDeclarationStart() bool {
	return p.check(TokenAmpersand) || p.atAnyKeyword(KeywordFunction, KeywordProcedure)
}

func (p *Parser) atBlockEnd() bool {
	return p.check(TokenEOF) || p.atClosingKeyword() || p.atDeclarationStart()
}

// parseCodeBlock parses statements up to a closing keyword, a declaration
// or the end of input. The block may be empty.
func (p *Parser) parseCodeBlock(mode parseMode) *Node {
	node := p.startNode(KindCodeBlock)
	for !p.atBlockEnd() {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement(mode))
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

// parseStatement parses one statement and the optional ';' after it. The
// separator is not part of the statement's node.
func (p *Parser) parseStatement(mode parseMode) *Node {
	if p.check(TokenSemicolon) {
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	}

	var stmt *Node
	switch {
	case p.atKeyword(KeywordIf):
		stmt = p.parseIfStmt(mode)
	case p.atKeyword(KeywordWhile):
		stmt = p.parseWhileLoop(mode)
	case p.atForEach():
		stmt = p.parseForEachLoop(mode)
	case p.atKeyword(KeywordFor):
		stmt = p.parseForLoop(mode)
	case p.atKeyword(KeywordTry):
		stmt = p.parseTryStmt(mode)
	case p.atKeyword(KeywordReturn):
		stmt = p.parseJumpWithValue(KindReturnStmt)
	case p.atKeyword(KeywordRaise):
		stmt = p.parseJumpWithValue(KindRaiseStmt)
	case p.atKeyword(KeywordBreak):
		stmt = p.leafStatement(KindBreakStmt)
	case p.atKeyword(KeywordContinue):
		stmt = p.leafStatement(KindContinueStmt)
	case p.atKeyword(KeywordAddHandler):
		stmt = p.parseHandlerStmt(KindAddHandlerStmt)
	case p.atKeyword(KeywordRemoveHandler):
		stmt = p.parseHandlerStmt(KindRemoveHandlerStmt)
	case p.atKeyword(KeywordVar):
		msg := "variable declarations must come before statements"
		if mode == modeModule {
			msg = "module variables must be declared before methods and module code"
		}
		return p.misplaced(p.parseVarDecl(mode, nil), msg)
	default:
		stmt = p.parseSimpleStatement()
	}

	p.expect(TokenSemicolon)
	return stmt
}

func (p *Parser) leafStatement(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	return p.finishNode(node)
}

// parseSimpleStatement parses an assignment or a call statement. Both start
// with a member access; an '=' after it makes the statement an assignment,
// so '=' inside the value is always equality.
func (p *Parser) parseSimpleStatement() *Node {
	if !p.check(TokenIdent) {
		errNode := p.errorNode(p.unexpected("statement"), "statement")
		p.synchronize(errNode)
		return errNode
	}

	target := p.parseMemberAccess()

	if p.check(TokenEQ) {
		node := p.wrap(KindAssignment, target, FieldTarget)
		if target.Kind == KindCallExpr {
			msg := "cannot assign to a method call"
			p.report(Syntax, target.Span, msg)
			target.Field = ""
			errNode := &Node{Kind: KindError, Span: target.Span, Error: &Error{Message: msg}}
			errNode.AddField(FieldTarget, target)
			node.Children = []*Node{errNode}
		}
		p.advance()
		node.AddField(FieldValue, p.parseExpression())
		return p.finishNode(node)
	}

	if target.Kind == KindCallExpr {
		node := p.wrap(KindCallStmt, target, "")
		return p.finishNode(node)
	}

	errNode := p.errorNode(p.unexpected("'=' or a method call"), TokenEQ.String(), TokenLParen.String())
	errNode.Span.Start = target.Span.Start
	errNode.AddChild(target)
	p.synchronize(errNode)
	return errNode
}

func (p *Parser) parseIfStmt(mode parseMode) *Node {
	node := p.startNode(KindIfStmt)
	open := p.advance()

	node.AddField(FieldCondition, p.parseExpression())
	p.expectKeyword(node, KeywordThen)
	node.AddField(FieldBody, p.parseCodeBlock(mode))

	for p.atKeyword(KeywordElsIf) {
		clause := p.startNode(KindElsIfClause)
		p.advance()
		clause.AddField(FieldCondition, p.parseExpression())
		p.expectKeyword(clause, KeywordThen)
		clause.AddField(FieldBody, p.parseCodeBlock(mode))
		node.AddChild(p.finishNode(clause))
	}

	if p.atKeyword(KeywordElse) {
		clause := p.startNode(KindElseClause)
		p.advance()
		clause.AddField(FieldBody, p.parseCodeBlock(mode))
		node.AddField(FieldElse, p.finishNode(clause))
	}

	p.closeBlock(node, open, KeywordEndIf)
	return p.finishNode(node)
}

func (p *Parser) parseWhileLoop(mode parseMode) *Node {
	node := p.startNode(KindWhileLoop)
	open := p.advance()

	node.AddField(FieldCondition, p.parseExpression())
	p.expectKeyword(node, KeywordDo)
	node.AddField(FieldBody, p.parseCodeBlock(mode))
	p.closeBlock(node, open, KeywordEndWhile, KeywordEndDo)
	return p.finishNode(node)
}

// parseForLoop parses For i = from To to Do ... EndDo.
func (p *Parser) parseForLoop(mode parseMode) *Node {
	node := p.startNode(KindForLoop)
	open := p.advance()

	p.expectIdentifier(node, FieldVariable)
	p.expectToken(node, TokenEQ)
	node.AddField(FieldFrom, p.parseExpression())
	p.expectKeyword(node, KeywordTo)
	node.AddField(FieldTo, p.parseExpression())
	p.expectKeyword(node, KeywordDo)
	node.AddField(FieldBody, p.parseCodeBlock(mode))
	p.closeBlock(node, open, KeywordEndDo, KeywordEndWhile)
	return p.finishNode(node)
}

// parseForEachLoop parses For Each item In collection Do ... EndDo.
func (p *Parser) parseForEachLoop(mode parseMode) *Node {
	node := p.startNode(KindForEachLoop)
	node.Keyword = KeywordForEach
	open := p.advance()
	p.advance()

	p.expectIdentifier(node, FieldVariable)
	p.expectKeyword(node, KeywordIn)
	node.AddField(FieldIterable, p.parseExpression())
	p.expectKeyword(node, KeywordDo)
	node.AddField(FieldBody, p.parseCodeBlock(mode))
	p.closeBlock(node, open, KeywordEndDo, KeywordEndWhile)
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt(mode parseMode) *Node {
	node := p.startNode(KindTryStmt)
	open := p.advance()

	node.AddField(FieldBody, p.parseCodeBlock(mode))
	if p.atKeyword(KeywordExcept) {
		clause := p.startNode(KindExceptClause)
		p.advance()
		clause.AddField(FieldBody, p.parseCodeBlock(mode))
		node.AddChild(p.finishNode(clause))
	} else {
		p.expectKeyword(node, KeywordExcept)
	}
	p.closeBlock(node, open, KeywordEndTry)
	return p.finishNode(node)
}

// parseJumpWithValue parses Return or Raise with an optional value.
func (p *Parser) parseJumpWithValue(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if !p.check(TokenSemicolon) && !p.atBlockEnd() {
		node.AddField(FieldValue, p.parseExpression())
	}
	return p.finishNode(node)
}

// parseHandlerStmt parses AddHandler/RemoveHandler event, handler.
func (p *Parser) parseHandlerStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	node.AddField(FieldEvent, p.parseExpression())
	p.expectToken(node, TokenComma)
	node.AddField(FieldHandler, p.parseExpression())
	return p.finishNode(node)
}

// closeBlock consumes one of the closers of the construct opened by open.
// A closer that belongs to another construct is left in place.
func (p *Parser) closeBlock(node *Node, open Token, closers ...Keyword) {
	for _, kw := range closers {
		if p.atKeyword(kw) {
			p.advance()
			return
		}
	}
	msg := fmt.Sprintf("expected %s to close %s opened at %s", keywordList(closers), open.Literal, open.Span.Start)
	if !p.check(TokenEOF) {
		msg += fmt.Sprintf(", got %q", p.peek().Literal)
	}
	node.AddChild(p.pairingError(msg, keywordNames(closers)...))
}

// misplaced wraps a well-formed node that appears where it is not allowed.
func (p *Parser) misplaced(inner *Node, msg string) *Node {
	p.report(Structural, inner.Span, msg)
	errNode := &Node{Kind: KindError, Span: inner.Span, Error: &Error{Message: msg}}
	errNode.AddChild(inner)
	return errNode
}
