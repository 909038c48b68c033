package parser

import "fmt"

// parseMode tells the declaration parser whether it is at module level or
// inside a method body. Module and local variable blocks share one shape;
// the mode decides which node kind a Var produces.
type parseMode int

const (
	modeModule parseMode = iota
	modeMethod
)

// Top-level sections must appear in this order.
const (
	phaseVars = iota
	phaseMethods
	phaseCode
)

func (p *Parser) parseSourceFile() *Node {
	node := p.startNode(KindSourceFile)
	phase := phaseVars
	var vars, methods, code *Node

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		ahead := p.afterAnnotations()

		switch {
		case p.atKeywordN(ahead, KeywordVar):
			decl := p.parseVarDecl(modeModule, p.parseAnnotations())
			if phase > phaseVars {
				node.AddChild(p.misplaced(decl, "module variables must be declared before methods and module code"))
				break
			}
			if vars == nil {
				vars = p.startNode(KindModuleVarBlock)
				vars.Span = decl.Span
				node.AddChild(vars)
			}
			vars.AddChild(decl)
			p.finishNode(vars)

		case p.atKeywordN(ahead, KeywordFunction) || p.atKeywordN(ahead, KeywordProcedure):
			method := p.parseMethod(p.parseAnnotations())
			if phase > phaseMethods {
				node.AddChild(p.misplaced(method, "methods must be declared before module code"))
				break
			}
			phase = phaseMethods
			if methods == nil {
				methods = p.startNode(KindMethodBlock)
				methods.Span = method.Span
				node.AddChild(methods)
			}
			methods.AddChild(method)
			p.finishNode(methods)

		case p.check(TokenAmpersand):
			annotations := p.parseAnnotations()
			msg := "annotation must precede a variable, method or argument declaration"
			errNode := &Node{Kind: KindError, Span: annotations[0].Span, Error: &Error{Message: msg}}
			for _, a := range annotations {
				errNode.AddChild(a)
			}
			p.report(Syntax, errNode.Span, msg)
			node.AddChild(p.finishNode(errNode))

		case p.atClosingKeyword():
			tok := p.advance()
			msg := fmt.Sprintf("unexpected %q without a matching opening keyword", tok.Literal)
			p.report(Syntax, tok.Span, msg)
			node.AddChild(&Node{
				Kind:  KindError,
				Span:  tok.Span,
				Token: &tok,
				Error: &Error{Message: msg, Got: &tok},
			})

		default:
			phase = phaseCode
			block := p.parseCodeBlock(modeModule)
			if code == nil {
				code = block
				node.AddChild(code)
			} else {
				code.Children = append(code.Children, block.Children...)
				code.Span.End = block.Span.End
			}
		}

		if !progress() {
			break
		}
	}

	p.finishNode(node)
	node.Span = Span{
		Start: Position{File: p.file, Offset: 0, Line: 1, Column: 1},
		End:   p.peek().Span.End,
	}
	return node
}

// afterAnnotations returns the lookahead distance to the first token after
// the annotations starting at the current token.
func (p *Parser) afterAnnotations() int {
	n := 0
	for p.peekN(n).Kind == TokenAmpersand {
		n++
		if p.peekN(n).Kind == TokenIdent {
			n++
		}
		if p.peekN(n).Kind != TokenLParen {
			continue
		}
		depth := 0
		for {
			kind := p.peekN(n).Kind
			if kind == TokenEOF {
				return n
			}
			n++
			if kind == TokenLParen {
				depth++
			} else if kind == TokenRParen {
				depth--
				if depth == 0 {
					break
				}
			}
		}
	}
	return n
}

func (p *Parser) parseAnnotations() []*Node {
	var annotations []*Node
	for p.check(TokenAmpersand) {
		annotations = append(annotations, p.parseAnnotation())
	}
	return annotations
}

// parseAnnotation parses &Name or &Name(param, name = value, ...).
func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.advance()
	p.expectIdentifier(node, FieldName)

	if p.check(TokenLParen) {
		p.advance()
		for !p.check(TokenRParen) {
			node.AddChild(p.parseAnnotationParam())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
		p.expectToken(node, TokenRParen)
	}
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationParam() *Node {
	node := p.startNode(KindAnnotationParam)
	if p.check(TokenIdent) {
		node.AddField(FieldName, p.leaf(KindIdentifier, p.advance()))
		if p.check(TokenEQ) {
			p.advance()
			node.AddField(FieldValue, p.parseConstValue())
		}
		return p.finishNode(node)
	}
	node.AddField(FieldValue, p.parseConstValue())
	return p.finishNode(node)
}

// parseConstValue parses a literal: a number (optionally signed), string,
// date, Null, Undefined, True or False.
func (p *Parser) parseConstValue() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenNumber, TokenString, TokenDate:
		return p.leaf(KindLiteral, p.advance())
	case TokenNull, TokenUndefined, TokenTrue, TokenFalse:
		n := p.leaf(KindLiteral, p.advance())
		n.Keyword = literalKeyword(tok.Kind)
		return n
	}
	errNode := p.errorNode(p.unexpected("literal value"), "literal")
	if errNode.Token == nil && !p.match(TokenComma, TokenRParen, TokenSemicolon, TokenEOF) {
		p.advance()
		errNode.Span.End = tok.Span.End
	}
	return errNode
}

// parseVarDecl parses Var a, b [Export]; as a module or a local
// declaration depending on mode.
func (p *Parser) parseVarDecl(mode parseMode, annotations []*Node) *Node {
	kind := KindVarDecl
	if mode == modeModule {
		kind = KindModuleVarDecl
	}
	node := p.startNode(kind)
	if len(annotations) > 0 {
		node.Span.Start = annotations[0].Span.Start
	}
	for _, a := range annotations {
		node.AddChild(a)
	}

	p.advance()
	p.expectIdentifier(node, FieldName)
	for p.check(TokenComma) {
		p.advance()
		if !p.expectIdentifier(node, FieldName) {
			break
		}
	}
	if p.atKeyword(KeywordExport) {
		node.AddChild(p.parseExport())
	}
	p.expectToken(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExport() *Node {
	n := p.leaf(KindExport, p.advance())
	n.Keyword = KeywordExport
	return n
}

// parseMethod parses a Function or Procedure declaration through its
// closing keyword.
func (p *Parser) parseMethod(annotations []*Node) *Node {
	kind, nameField := KindProcDecl, FieldProcName
	closer, other := KeywordEndProcedure, KeywordEndFunction
	if p.atKeyword(KeywordFunction) {
		kind, nameField = KindFuncDecl, FieldFuncName
		closer, other = KeywordEndFunction, KeywordEndProcedure
	}

	node := p.startNode(kind)
	if len(annotations) > 0 {
		node.Span.Start = annotations[0].Span.Start
	}
	for _, a := range annotations {
		node.AddChild(a)
	}

	open := p.advance()
	p.expectIdentifier(node, nameField)
	node.AddChild(p.parseArgumentList())
	if p.atKeyword(KeywordExport) {
		node.AddChild(p.parseExport())
	}

	if p.atKeyword(KeywordVar) {
		vars := p.startNode(KindVarBlock)
		for p.atKeyword(KeywordVar) {
			vars.AddChild(p.parseVarDecl(modeMethod, nil))
		}
		node.AddChild(p.finishNode(vars))
	}

	node.AddField(FieldBody, p.parseCodeBlock(modeMethod))

	switch {
	case p.atKeyword(closer):
		p.advance()
	case p.atKeyword(other):
		tok := p.peek()
		msg := fmt.Sprintf("%s opened at %s is closed with %q", open.Literal, open.Span.Start, tok.Literal)
		errNode := p.pairingError(msg, closer.String())
		p.advance()
		errNode.Span.End = tok.Span.End
		node.AddChild(errNode)
	default:
		p.closeBlock(node, open, closer)
	}
	return p.finishNode(node)
}

// parseArgumentList parses ([&Annotation] [Val] name [= literal], ...).
func (p *Parser) parseArgumentList() *Node {
	node := p.startNode(KindArgumentList)
	if !p.expectToken(node, TokenLParen) {
		return p.finishNode(node)
	}

	if !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseArgument())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	if p.expect(TokenRParen) == nil {
		errNode := p.errorNode(p.unexpected("')'"), TokenRParen.String())
		if p.skipPast(TokenRParen) {
			errNode.Span.End = p.tokens[p.pos-1].Span.End
		}
		node.AddChild(errNode)
	}
	return p.finishNode(node)
}

func (p *Parser) parseArgument() *Node {
	node := p.startNode(KindArgument)
	for _, a := range p.parseAnnotations() {
		node.AddChild(a)
	}
	if p.atKeyword(KeywordVal) && p.peekN(1).Kind == TokenIdent {
		node.Keyword = KeywordVal
		p.advance()
	}
	p.expectIdentifier(node, FieldName)
	if p.check(TokenEQ) {
		p.advance()
		node.AddField(FieldDefault, p.parseConstValue())
	}
	return p.finishNode(node)
}

// IsByValue reports whether an argument node was declared with Val.
func (n *Node) IsByValue() bool {
	return n.Kind == KindArgument && n.Keyword == KeywordVal
}

// IsExported reports whether a declaration carries Export.
func (n *Node) IsExported() bool {
	return n.FirstChildOfKind(KindExport) != nil
}
