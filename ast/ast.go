package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/monet-lang/monet/token"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// Expression is the closed set of expression variants:
// *Number, *Variable, *Binary, *Call and *Empty.
type Expression interface {
	Node
	expressionNode()
}

type Number struct {
	Token token.Token // the token.INT or token.FLOAT token
	Value float64
}

func (n *Number) expressionNode()  {}
func (n *Number) Tok() token.Token { return n.Token }
func (n *Number) String() string   { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

type Variable struct {
	Token token.Token // the token.IDENT token
	Name  string
}

func (v *Variable) expressionNode()  {}
func (v *Variable) Tok() token.Token { return v.Token }
func (v *Variable) String() string   { return v.Name }

type Binary struct {
	Token    token.Token // The operator token, e.g. +
	Operator string
	Left     Expression
	Right    Expression
}

func (b *Binary) expressionNode()  {}
func (b *Binary) Tok() token.Token { return b.Token }
func (b *Binary) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")

	return out.String()
}

type Call struct {
	Token     token.Token // the callee identifier
	Callee    string
	Arguments []Expression
}

func (c *Call) expressionNode()  {}
func (c *Call) Tok() token.Token { return c.Token }
func (c *Call) String() string {
	var out bytes.Buffer

	args := make([]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(c.Callee)
	out.WriteString("(")
	out.WriteString(strings.Join(args, " "))
	out.WriteString(")")

	return out.String()
}

// Empty is the body of a prototype declared with extern.
type Empty struct {
	Token token.Token
}

func (e *Empty) expressionNode()  {}
func (e *Empty) Tok() token.Token { return e.Token }
func (e *Empty) String() string   { return "" }

type Prototype struct {
	Token      token.Token // the function name
	Name       string
	Parameters []string
}

func (p *Prototype) Tok() token.Token { return p.Token }
func (p *Prototype) String() string {
	return p.Name + "(" + strings.Join(p.Parameters, " ") + ")"
}

// IsAnonymous reports whether p wraps a top-level expression.
func (p *Prototype) IsAnonymous() bool {
	return p.Name == ""
}

type Function struct {
	Prototype *Prototype
	Body      Expression
}

func (f *Function) Tok() token.Token { return f.Prototype.Tok() }
func (f *Function) String() string {
	switch {
	case f.IsExtern():
		return "extern " + f.Prototype.String()
	case f.Prototype.IsAnonymous():
		return f.Body.String()
	}
	return "def " + f.Prototype.String() + " " + f.Body.String()
}

// IsExtern reports whether f only declares its prototype.
func (f *Function) IsExtern() bool {
	_, ok := f.Body.(*Empty)
	return ok
}

// NewExtern returns a body-less function for proto.
func NewExtern(proto *Prototype) *Function {
	return &Function{Prototype: proto, Body: &Empty{Token: proto.Token}}
}

// NewTopLevel wraps expr in an anonymous function without parameters.
func NewTopLevel(expr Expression) *Function {
	return &Function{
		Prototype: &Prototype{Token: expr.Tok(), Parameters: []string{}},
		Body:      expr,
	}
}

// Program holds the top-level items of one source text in order.
type Program struct {
	Functions []*Function
}

func (p *Program) Tok() token.Token {
	if len(p.Functions) > 0 {
		return p.Functions[0].Tok()
	}
	return token.Token{Type: token.EOF}
}

func (p *Program) String() string {
	lines := make([]string, 0, len(p.Functions))
	for _, f := range p.Functions {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}
