package marq

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Two-character operators, matched before single punctuation. Longest match
// wins so `::` never splits into two `:` tokens.
var twoCharPuncts = []string{
	"::", "=>", "->", "..", "==", "!=", "<=", ">=", "&&", "||",
}

const singlePuncts = "@+-*/%^!&|<>=.,;:#?$(){}[]~"

// Lex converts raw template source into the token stream consumed by
// [Parse]. It skips whitespace and // and /* */ comments and appends a
// trailing EOF token. Embedded expressions are not interpreted here; their
// tokens flow through the parser as opaque captures.
func Lex(source string) ([]Token, error) {
	l := &lexer{src: source, line: 1, col: 1}
	return l.run()
}

type lexer struct {
	src    string
	offset int
	line   int
	col    int
	tokens []Token
}

func (l *lexer) run() ([]Token, error) {
	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		if l.offset >= len(l.src) {
			break
		}
		pos := l.pos()
		r := l.peek()
		switch {
		case unicode.IsLetter(r) || r == '_':
			l.emit(Ident, l.scanIdent(), pos)
		case unicode.IsDigit(r):
			l.emit(Literal, l.scanNumber(), pos)
		case r == '"':
			text, err := l.scanString()
			if err != nil {
				return nil, err
			}
			l.emit(Literal, text, pos)
		case r == '\'':
			text, err := l.scanChar()
			if err != nil {
				return nil, err
			}
			l.emit(Literal, text, pos)
		default:
			text, err := l.scanPunct()
			if err != nil {
				return nil, err
			}
			l.emit(Punct, text, pos)
		}
	}
	l.tokens = append(l.tokens, Token{Kind: EOF, Pos: l.pos()})
	return l.tokens, nil
}

func (l *lexer) pos() Pos { return Pos{Line: l.line, Column: l.col} }

func (l *lexer) emit(kind Kind, text string, pos Pos) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

func (l *lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	return r
}

func (l *lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() error {
	for l.offset < len(l.src) {
		switch {
		case unicode.IsSpace(l.peek()):
			l.next()
		case strings.HasPrefix(l.src[l.offset:], "//"):
			for l.offset < len(l.src) && l.peek() != '\n' {
				l.next()
			}
		case strings.HasPrefix(l.src[l.offset:], "/*"):
			pos := l.pos()
			l.next()
			l.next()
			for !strings.HasPrefix(l.src[l.offset:], "*/") {
				if l.offset >= len(l.src) {
					return &SyntaxError{Position: pos, Expected: []string{"`*/`"}}
				}
				l.next()
			}
			l.next()
			l.next()
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) scanIdent() string {
	start := l.offset
	for l.offset < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.next()
	}
	return l.src[start:l.offset]
}

// scanNumber consumes an integer or decimal literal, including unit-style
// alphanumeric suffixes (`1.2rem`, `10px`, `3usize`). A dot is only taken
// when a digit follows, so `1.max` lexes as `1` `.` `max`.
func (l *lexer) scanNumber() string {
	start := l.offset
	digits := func() {
		for l.offset < len(l.src) && (unicode.IsDigit(l.peek()) || l.peek() == '_') {
			l.next()
		}
	}
	digits()
	if l.offset+1 < len(l.src) && l.peek() == '.' {
		if r, _ := utf8.DecodeRuneInString(l.src[l.offset+1:]); unicode.IsDigit(r) {
			l.next()
			digits()
		}
	}
	for l.offset < len(l.src) && (unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek())) {
		l.next()
	}
	return l.src[start:l.offset]
}

func (l *lexer) scanString() (string, error) {
	pos := l.pos()
	start := l.offset
	l.next() // opening quote
	for {
		if l.offset >= len(l.src) {
			return "", &SyntaxError{Position: pos, Expected: []string{"closing `\"`"}}
		}
		switch l.next() {
		case '\\':
			if l.offset < len(l.src) {
				l.next()
			}
		case '"':
			return l.src[start:l.offset], nil
		}
	}
}

func (l *lexer) scanChar() (string, error) {
	pos := l.pos()
	start := l.offset
	l.next() // opening quote
	if l.offset >= len(l.src) {
		return "", &SyntaxError{Position: pos, Expected: []string{"closing `'`"}}
	}
	if l.next() == '\\' && l.offset < len(l.src) {
		l.next()
	}
	if l.offset >= len(l.src) || l.next() != '\'' {
		return "", &SyntaxError{Position: pos, Expected: []string{"closing `'`"}}
	}
	return l.src[start:l.offset], nil
}

func (l *lexer) scanPunct() (string, error) {
	rest := l.src[l.offset:]
	for _, op := range twoCharPuncts {
		if strings.HasPrefix(rest, op) {
			l.next()
			l.next()
			return op, nil
		}
	}
	if r := l.peek(); strings.ContainsRune(singlePuncts, r) {
		l.next()
		return string(r), nil
	}
	return "", &SyntaxError{Position: l.pos(), Expected: []string{"token"}}
}
