// Package data decodes the literal notation shared by monet scripts:
// identifiers, integers, decimals, arrays and pairs.
package data

import (
	"strconv"
	"strings"
)

// Value is one decoded literal.
type Value interface {
	String() string
	value()
}

type Ident struct {
	Name string
}

type Integer struct {
	Value uint64
}

type Decimal struct {
	Value float64
}

// Array is a bracketed, comma separated list. Elements may mix kinds.
type Array struct {
	Elems []Value
}

// Pair is a parenthesized two element tuple.
type Pair struct {
	First  Value
	Second Value
}

func (*Ident) value()   {}
func (*Integer) value() {}
func (*Decimal) value() {}
func (*Array) value()   {}
func (*Pair) value()    {}

func (i *Ident) String() string { return i.Name }

func (i *Integer) String() string { return strconv.FormatUint(i.Value, 10) }

// String always keeps a '.' so the result decodes back to a Decimal.
func (d *Decimal) String() string {
	s := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += "."
	}
	return s
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p *Pair) String() string {
	return "(" + p.First.String() + ", " + p.Second.String() + ")"
}
