package data

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/monet-lang/monet/lexer"
	"github.com/monet-lang/monet/parser"
	"github.com/monet-lang/monet/token"
)

type decoder struct {
	l   *lexer.Lexer
	cur token.Token
	err *parser.SyntaxError
}

// Decode parses src as exactly one literal value.
func Decode(src string) (Value, error) {
	d := &decoder{l: lexer.New("", src)}
	d.next()

	v := d.value()
	if d.err != nil {
		return nil, d.err
	}
	if d.cur.Type != token.EOF {
		d.fail("end of input")
		return nil, d.err
	}
	return v, nil
}

func (d *decoder) next() {
	d.cur = d.l.NextToken()
}

func (d *decoder) fail(expected string) {
	if d.err == nil {
		d.err = &parser.SyntaxError{Pos: d.cur.Pos, Expected: expected, Found: d.cur}
	}
}

func (d *decoder) expect(t token.TokenType) bool {
	if d.cur.Type != t {
		d.fail(t.String())
		return false
	}
	d.next()
	return true
}

func (d *decoder) value() Value {
	tok := d.cur
	if tok.Type == token.IDENT || tok.IsKeyword() {
		d.next()
		return &Ident{Name: tok.Literal}
	}

	switch tok.Type {
	case token.INT:
		n, err := strconv.ParseUint(tok.Literal, 10, 64)
		if err != nil {
			d.err = &parser.SyntaxError{
				Pos:   tok.Pos,
				Found: tok,
				Msg:   fmt.Sprintf("integer %s out of range", tok.Literal),
			}
			return nil
		}
		d.next()
		return &Integer{Value: n}
	case token.FLOAT:
		d.next()
		if tok.Literal == "." {
			return &Decimal{}
		}
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			d.err = &parser.SyntaxError{
				Pos:   tok.Pos,
				Found: tok,
				Msg:   fmt.Sprintf("could not parse %q as a decimal", tok.Literal),
			}
			return nil
		}
		return &Decimal{Value: f}
	case token.LBRACK:
		return d.array()
	case token.LPAREN:
		return d.pair()
	}
	d.fail("value")
	return nil
}

func (d *decoder) array() Value {
	d.next()
	arr := &Array{Elems: []Value{}}
	if d.cur.Type == token.RBRACK {
		d.next()
		return arr
	}
	for {
		v := d.value()
		if v == nil {
			return nil
		}
		arr.Elems = append(arr.Elems, v)
		if d.cur.Type != token.COMMA {
			break
		}
		d.next()
	}
	if !d.expect(token.RBRACK) {
		return nil
	}
	return arr
}

func (d *decoder) pair() Value {
	d.next()
	first := d.value()
	if first == nil || !d.expect(token.COMMA) {
		return nil
	}
	second := d.value()
	if second == nil || !d.expect(token.RPAREN) {
		return nil
	}
	return &Pair{First: first, Second: second}
}
