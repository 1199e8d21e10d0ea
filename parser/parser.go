package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/monet-lang/monet/ast"
	"github.com/monet-lang/monet/lexer"
	"github.com/monet-lang/monet/token"
)

// Every operator has a level of its own, so each one forms a
// left-associative tier and tighter tiers nest inside looser ones.
const (
	_ int = iota
	LOWEST
	LESS     // <
	SUM      // +
	DIFF     // -
	PRODUCT  // *
	QUOTIENT // /
)

var precedences = map[token.TokenType]int{
	token.LSS: LESS,
	token.ADD: SUM,
	token.SUB: DIFF,
	token.MUL: PRODUCT,
	token.QUO: QUOTIENT,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []*SyntaxError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []*SyntaxError{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.INT, p.parseNumber)
	p.registerPrefix(token.FLOAT, p.parseNumber)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt := range precedences {
		p.registerInfix(tt, p.parseBinaryExpression)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t.String())
	return false
}

func (p *Parser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors[0]
}

func (p *Parser) peekError(expected string) {
	p.addError(&SyntaxError{Pos: p.peekToken.Pos, Expected: expected, Found: p.peekToken})
}

func (p *Parser) curError(expected string) {
	p.addError(&SyntaxError{Pos: p.curToken.Pos, Expected: expected, Found: p.curToken})
}

func (p *Parser) addError(e *SyntaxError) {
	if len(p.errors) > 0 {
		return
	}
	p.errors = append(p.errors, e)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.curError("expression")
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) canStartExpression(t token.TokenType) bool {
	_, ok := p.prefixParseFns[t]
	return ok
}

func (p *Parser) parseNumber() ast.Expression {
	num := &ast.Number{Token: p.curToken}

	// A lone "." has neither an integer nor a decimal part.
	if p.curToken.Literal == "." {
		return num
	}

	// Literals too large for a float64 become +Inf.
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.addError(&SyntaxError{
			Pos:   p.curToken.Pos,
			Found: p.curToken,
			Msg:   fmt.Sprintf("could not parse %q as a number", p.curToken.Literal),
		})
		return nil
	}

	num.Value = value
	return num
}

// parseIdentifier returns a variable, or a call when the name is followed
// by '('. Call arguments are separated by whitespace only.
func (p *Parser) parseIdentifier() ast.Expression {
	ident := p.curToken
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.Variable{Token: ident, Name: ident.Literal}
	}
	p.nextToken()

	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	return &ast.Call{Token: ident, Callee: ident.Literal, Arguments: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	for !p.peekTokenIs(token.RPAREN) {
		if !p.canStartExpression(p.peekToken.Type) {
			p.peekError("argument or )")
			return nil
		}
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	p.nextToken()

	return args
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expression := &ast.Binary{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	if !p.canStartExpression(p.peekToken.Type) {
		p.peekError("operand after " + expression.Operator)
		return nil
	}
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
