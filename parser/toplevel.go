package parser

import (
	"fmt"

	"github.com/monet-lang/monet/ast"
	"github.com/monet-lang/monet/token"
)

// ParseExpression parses one expression starting at the current token and
// leaves the parser on the token that follows it.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	exp := p.parseExpression(LOWEST)
	if err := p.err(); err != nil {
		return nil, err
	}
	p.nextToken()
	return exp, nil
}

// ParseDefinition parses `def name(params) body`.
func (p *Parser) ParseDefinition() (*ast.Function, error) {
	fn := p.parseDefinition()
	if err := p.err(); err != nil {
		return nil, err
	}
	p.nextToken()
	return fn, nil
}

// ParseExtern parses `extern name(params)`.
func (p *Parser) ParseExtern() (*ast.Function, error) {
	fn := p.parseExtern()
	if err := p.err(); err != nil {
		return nil, err
	}
	p.nextToken()
	return fn, nil
}

// ParseTopLevel parses a definition, an extern or a bare expression. A bare
// expression is wrapped in an anonymous function.
func (p *Parser) ParseTopLevel() (*ast.Function, error) {
	fn := p.parseTopLevel()
	if err := p.err(); err != nil {
		return nil, err
	}
	p.nextToken()
	return fn, nil
}

// ParseProgram parses top-level items until the end of input. Items may be
// separated by ';'.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Functions: []*ast.Function{}}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		fn := p.parseTopLevel()
		if err := p.err(); err != nil {
			return nil, err
		}
		program.Functions = append(program.Functions, fn)
		p.nextToken()
	}

	return program, nil
}

// ExpectEnd checks that only separators remain in the input.
func (p *Parser) ExpectEnd() error {
	for p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	if !p.curTokenIs(token.EOF) {
		p.curError("end of input")
	}
	return p.err()
}

func (p *Parser) parseTopLevel() *ast.Function {
	switch p.curToken.Type {
	case token.DEF:
		return p.parseDefinition()
	case token.EXTERN:
		return p.parseExtern()
	}
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	return ast.NewTopLevel(exp)
}

func (p *Parser) parseDefinition() *ast.Function {
	if !p.curTokenIs(token.DEF) {
		p.curError("def")
		return nil
	}
	proto := p.parsePrototype()
	if proto == nil {
		return nil
	}

	if !p.canStartExpression(p.peekToken.Type) {
		p.peekError("function body")
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}

	return &ast.Function{Prototype: proto, Body: body}
}

func (p *Parser) parseExtern() *ast.Function {
	if !p.curTokenIs(token.EXTERN) {
		p.curError("extern")
		return nil
	}
	proto := p.parsePrototype()
	if proto == nil {
		return nil
	}
	return ast.NewExtern(proto)
}

// parsePrototype parses `name(a b c)` following a def or extern keyword.
func (p *Parser) parsePrototype() *ast.Prototype {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	proto := &ast.Prototype{Token: p.curToken, Name: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	params := []token.Token{}
	for p.peekTokenIs(token.IDENT) {
		p.nextToken()
		params = append(params, p.curToken)
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.peekError("parameter name or )")
		return nil
	}
	p.nextToken()

	if !p.checkNoDuplicates(proto.Name, params) {
		return nil
	}
	proto.Parameters = make([]string, len(params))
	for i, param := range params {
		proto.Parameters[i] = param.Literal
	}
	return proto
}

func (p *Parser) checkNoDuplicates(fnName string, params []token.Token) bool {
	seen := make(map[string]bool, len(params))
	for _, param := range params {
		if seen[param.Literal] {
			p.addError(&SyntaxError{
				Pos:   param.Pos,
				Found: param,
				Msg:   fmt.Sprintf("duplicate parameter %s in prototype %s", param.Literal, fnName),
			})
			return false
		}
		seen[param.Literal] = true
	}
	return true
}
