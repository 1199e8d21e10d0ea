package parser

import (
	"github.com/monet-lang/monet/ast"
	"github.com/monet-lang/monet/lexer"
)

// Expression parses src as a single expression.
func Expression(src string) (ast.Expression, error) {
	p := New(lexer.New("", src))
	exp, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return exp, nil
}

// Definition parses src as a single function definition.
func Definition(src string) (*ast.Function, error) {
	p := New(lexer.New("", src))
	fn, err := p.ParseDefinition()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return fn, nil
}

// TopLevel parses src as one definition, extern or expression.
func TopLevel(src string) (*ast.Function, error) {
	p := New(lexer.New("", src))
	fn, err := p.ParseTopLevel()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return fn, nil
}

// Program parses every top-level item in src. fileName is only used in
// error positions.
func Program(fileName, src string) (*ast.Program, error) {
	return New(lexer.New(fileName, src)).ParseProgram()
}
