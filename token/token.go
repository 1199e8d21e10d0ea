package token

import "strconv"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	literal_beg
	// Identifiers + literals
	IDENT // foo, x, bar_2
	INT   // 1343456
	FLOAT // 123.45, 50., .43
	literal_end

	keyword_beg
	DEF    // def
	EXTERN // extern
	keyword_end

	// Operators and delimiters
	ADD // +
	SUB // -
	MUL // *
	QUO // /
	LSS // <

	LPAREN    // (
	LBRACK    // [
	COMMA     // ,
	SEMICOLON // ;

	RPAREN // )
	RBRACK // ]
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",

	EOF: "EOF",

	IDENT: "IDENT",
	INT:   "INT",
	FLOAT: "FLOAT",

	DEF:    "def",
	EXTERN: "extern",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	LSS: "<",

	LPAREN:    "(",
	LBRACK:    "[",
	COMMA:     ",",
	SEMICOLON: ";",

	RPAREN: ")",
	RBRACK: "]",
}

// Operator symbols as they appear in source and in ast.Binary.
const (
	SYM_ADD = "+"
	SYM_SUB = "-"
	SYM_MUL = "*"
	SYM_QUO = "/"
	SYM_LSS = "<"
)

var keywords = map[string]TokenType{
	"def":    DEF,
	"extern": EXTERN,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Position is a location in a source file. Line and Column are 1-based,
// Offset is the 0-based rune offset.
type Position struct {
	FileName string
	Line     int
	Column   int
	Offset   int
}

func (p Position) String() string {
	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.FileName != "" {
		s = p.FileName + ":" + s
	}
	return s
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) IsLiteral() bool {
	return literal_beg < t.Type && t.Type < literal_end
}

func (t Token) IsKeyword() bool {
	return keyword_beg < t.Type && t.Type < keyword_end
}

func (t Token) String() string {
	switch {
	case t.Type == EOF:
		return "end of input"
	case t.IsLiteral(), t.Type == ILLEGAL:
		return strconv.Quote(t.Literal)
	}
	return t.Type.String()
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}
