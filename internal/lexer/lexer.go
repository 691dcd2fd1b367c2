package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/token"
)

// Reporter receives lexical errors as soon as they are found.
type Reporter func(err *diagnostics.DiagnosticError)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	file     string
	reporter Reporter
	errors   []*diagnostics.DiagnosticError
	halted   bool
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// NewWithFile creates a lexer whose diagnostics carry the file name.
func NewWithFile(input, file string, reporter Reporter) *Lexer {
	l := New(input)
	l.file = file
	l.reporter = reporter
	return l
}

// Errors returns the lexical errors seen so far (at most one: the lexer
// halts on the first).
func (l *Lexer) Errors() []*diagnostics.DiagnosticError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token. After EOF or a lexical error every call
// returns EOF.
func (l *Lexer) NextToken() token.Token {
	if l.halted {
		return l.eof()
	}

	l.skipWhitespace()

	if l.atEnd() {
		return l.eof()
	}

	line, col := l.line, l.column

	// line comment: consume it and start over
	if l.ch == '/' && l.peekChar() == '/' {
		for !l.atEnd() && l.ch != '\n' {
			l.readChar()
		}
		return l.NextToken()
	}

	var tok token.Token
	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN, line, col)
	case '!':
		tok = l.twoCharToken('=', token.NOT_EQ, token.BANG, line, col)
	case '>':
		tok = l.twoCharToken('=', token.GTE, token.GT, line, col)
	case '<':
		if l.peekChar() == '-' {
			l.readChar()
			tok = token.Token{Type: token.L_ARROW, Lexeme: "<-", Literal: "<-", Line: line, Column: col}
		} else {
			tok = l.twoCharToken('=', token.LTE, token.LT, line, col)
		}
	case '&':
		tok = l.twoCharToken('&', token.AND, token.ILLEGAL, line, col)
	case '|':
		tok = l.twoCharToken('|', token.OR, token.ILLEGAL, line, col)
	case '?':
		tok = l.twoCharToken('?', token.NULL_COALESCE, token.ILLEGAL, line, col)
	case '+':
		tok = newToken(token.PLUS, l.ch, line, col)
	case '-':
		tok = newToken(token.MINUS, l.ch, line, col)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '%':
		tok = newToken(token.PERCENT, l.ch, line, col)
	case '.':
		tok = newToken(token.DOT, l.ch, line, col)
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, line, col)
	case ':':
		tok = newToken(token.COLON, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case '@':
		tok = newToken(token.AT, l.ch, line, col)
	case '"', '\'':
		return l.readString(line, col)
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(line, col)
		}
		if isDigit(l.ch) {
			return l.readNumber(line, col)
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(second rune, double, single token.TokenType, line, col int) token.Token {
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		literal := string(first) + string(second)
		return token.Token{Type: double, Lexeme: literal, Literal: literal, Line: line, Column: col}
	}
	return newToken(single, l.ch, line, col)
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	ident := l.input[start:l.position]
	if l.ch == '@' {
		for l.ch == '@' || isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return l.fail(diagnostics.ErrL001, line, col, l.input[start:l.position], "invalid identifier %q", l.input[start:l.position])
	}
	return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	dots := 0
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			dots++
		}
		l.readChar()
	}
	// a letter glued to the digits (1abc) is as malformed as 1.2.3
	for isLetter(l.ch) {
		dots = -1
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	if dots > 1 {
		return l.fail(diagnostics.ErrL002, line, col, lexeme, "malformed number %q: more than one decimal point", lexeme)
	}
	if dots < 0 {
		return l.fail(diagnostics.ErrL002, line, col, lexeme, "malformed number %q", lexeme)
	}
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return l.fail(diagnostics.ErrL002, line, col, lexeme, "malformed number %q", lexeme)
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: line, Column: col}
}

func (l *Lexer) readString(line, col int) token.Token {
	quote := l.ch
	start := l.position
	var b strings.Builder
	for {
		l.readChar()
		if l.atEnd() {
			return l.fail(diagnostics.ErrL003, line, col, l.input[start:], "unterminated string")
		}
		if l.ch == quote {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEnd() {
				return l.fail(diagnostics.ErrL003, line, col, l.input[start:], "unterminated string")
			}
			b.WriteRune(unescape(l.ch))
			continue
		}
		b.WriteRune(l.ch)
	}
	lexeme := l.input[start : l.position+1]
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Lexeme: lexeme, Literal: b.String(), Line: line, Column: col}
}

// unescape maps the character after a backslash to its value. Unknown
// escapes stand for the character itself.
func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	}
	return ch
}

// fail reports a lexical error and halts the stream so the parser sees EOF.
func (l *Lexer) fail(code diagnostics.ErrorCode, line, col int, lexeme, format string, args ...interface{}) token.Token {
	tok := token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = l.file
	l.errors = append(l.errors, err)
	if l.reporter != nil {
		l.reporter(err)
	}
	l.halted = true
	return token.Token{Type: token.EOF, Line: line, Column: col}
}

func (l *Lexer) eof() token.Token {
	return token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}
