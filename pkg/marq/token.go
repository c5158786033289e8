package marq

import (
	"fmt"
	"strings"
)

// Kind classifies a lexical token.
type Kind int

const (
	EOF     Kind = iota
	Ident        // identifiers and keywords (if, match, for, let, in, else)
	Literal      // string, char, and numeric literals
	Punct        // punctuation, multi-character operators included
)

// Pos is a 1-based line/column position in the template source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token is one element of the translator's input and output streams.
// Output tokens synthesized by the emitter carry the position of the
// template construct that produced them, so downstream errors in the
// generated call tree point back at the template.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

func (t Token) isPunct(text string) bool { return t.Kind == Punct && t.Text == text }
func (t Token) isIdent(text string) bool { return t.Kind == Ident && t.Text == text }

func (t Token) String() string {
	if t.Kind == EOF {
		return "<eof>"
	}
	return t.Text
}

// Stream provides one-token lookahead over a token slice. The slice is
// normalized to always end with an EOF token, so Peek and Next are total.
type Stream struct {
	tokens []Token
	cur    int
}

// NewStream wraps tokens in a Stream, appending a trailing EOF token if the
// producer did not supply one.
func NewStream(tokens []Token) *Stream {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != EOF {
		end := Pos{Line: 1, Column: 1}
		if n > 0 {
			last := tokens[n-1]
			end = Pos{Line: last.Pos.Line, Column: last.Pos.Column + len(last.Text)}
		}
		tokens = append(tokens, Token{Kind: EOF, Pos: end})
	}
	return &Stream{tokens: tokens}
}

// Peek returns the current token without consuming it.
func (s *Stream) Peek() Token {
	return s.tokens[s.cur]
}

// Next consumes and returns the current token. Once the stream is exhausted
// it keeps returning the trailing EOF token.
func (s *Stream) Next() Token {
	t := s.tokens[s.cur]
	if t.Kind != EOF {
		s.cur++
	}
	return t
}

// Render formats a token stream as source text with a single space between
// tokens. The rendering is deterministic so tests and golden files can match
// on it exactly.
func Render(tokens []Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if t.Kind == EOF {
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
