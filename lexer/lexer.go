package lexer

import "github.com/monet-lang/monet/token"

type Lexer struct {
	fileName     string
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
	line         int
	column       int
}

func New(fileName, input string) *Lexer {
	l := &Lexer{fileName: fileName, input: []rune(input), line: 1}
	l.readRune()
	return l
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()
	pos := l.pos()

	switch l.curr {
	case '+':
		tok = newToken(token.ADD, l.curr)
	case '-':
		tok = newToken(token.SUB, l.curr)
	case '*':
		tok = newToken(token.MUL, l.curr)
	case '/':
		tok = newToken(token.QUO, l.curr)
	case '<':
		tok = newToken(token.LSS, l.curr)
	case '(':
		tok = newToken(token.LPAREN, l.curr)
	case ')':
		tok = newToken(token.RPAREN, l.curr)
	case '[':
		tok = newToken(token.LBRACK, l.curr)
	case ']':
		tok = newToken(token.RBRACK, l.curr)
	case ',':
		tok = newToken(token.COMMA, l.curr)
	case ';':
		tok = newToken(token.SEMICOLON, l.curr)
	case 0:
		if l.position >= len(l.input) {
			tok.Type = token.EOF
			tok.Pos = pos
			return tok
		}
		tok = newToken(token.ILLEGAL, l.curr)
	default:
		if isLetter(l.curr) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Pos = pos
			return tok
		}
		if isDigit(l.curr) || l.curr == '.' {
			tok.Type, tok.Literal = l.readNumber()
			tok.Pos = pos
			return tok
		}
		tok = newToken(token.ILLEGAL, l.curr)
	}

	tok.Pos = pos
	l.readRune()
	return tok
}

// Tokenize returns all tokens up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		FileName: l.fileName,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.curr {
		case ' ', '\t', '\n', '\r':
			l.readRune()
		case '#':
			for l.curr != '\n' && l.position < len(l.input) {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readNumber reads an integer part, an optional '.', and an optional
// decimal part. Either part may be missing around the '.'.
func (l *Lexer) readNumber() (token.TokenType, string) {
	position := l.position
	for isDigit(l.curr) {
		l.readRune()
	}
	if l.curr != '.' {
		return token.INT, string(l.input[position:l.position])
	}
	l.readRune()
	for isDigit(l.curr) {
		l.readRune()
	}
	return token.FLOAT, string(l.input[position:l.position])
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, curr rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(curr)}
}
