package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType classifies a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword // obj, endobj, stream, xref, trailer, true, null, ...
	TokenInteger
	TokenReal
	TokenString    // literal string, escapes resolved
	TokenHexString // hex digits only, whitespace dropped
	TokenName      // without the slash, #xx resolved
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
	TokenIndirectRef // the R of "N G R"
)

// Token is one lexical unit. Pos is its byte offset in the lexer input.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64
}

// Lexer splits PDF syntax into tokens. It also hands out raw bytes for
// stream bodies, which are not tokenized.
type Lexer struct {
	r   *bufio.Reader
	pos int64
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r)}
}

// Pos is the number of bytes consumed so far.
func (l *Lexer) Pos() int64 {
	return l.pos
}

// NextToken skips whitespace and returns the next token. End of input
// yields TokenEOF and a nil error.
func (l *Lexer) NextToken() (*Token, error) {
	l.scan(isWhitespace)

	start := l.pos
	c, ok := l.peekByte(0)
	if !ok {
		return &Token{Type: TokenEOF, Pos: start}, nil
	}

	tok := &Token{Pos: start}
	var err error
	switch {
	case c == '%':
		tok.Type = TokenComment
		tok.Value = l.scan(func(b byte) bool { return b != '\r' && b != '\n' })
	case c == '/':
		l.skip(1)
		tok.Type = TokenName
		tok.Value = l.name()
	case c == '(':
		l.skip(1)
		tok.Type = TokenString
		tok.Value, err = l.literal(start)
	case c == '[' || c == ']':
		l.skip(1)
		tok.Type = TokenArrayStart
		if c == ']' {
			tok.Type = TokenArrayEnd
		}
		tok.Value = []byte{c}
	case c == '<' || c == '>':
		if next, ok := l.peekByte(1); ok && next == c {
			l.skip(2)
			tok.Type = TokenDictStart
			if c == '>' {
				tok.Type = TokenDictEnd
			}
			tok.Value = []byte{c, c}
		} else if c == '<' {
			l.skip(1)
			tok.Type = TokenHexString
			tok.Value, err = l.hex(start)
		} else {
			err = fmt.Errorf("unexpected '>' at position %d", start)
		}
	case isDigit(c) || c == '-' || c == '+' || c == '.':
		tok.Type, tok.Value = l.number()
	case isAlpha(c):
		tok.Value = l.scan(func(b byte) bool { return isAlpha(b) || isDigit(b) })
		tok.Type = TokenKeyword
		if len(tok.Value) == 1 && tok.Value[0] == 'R' {
			tok.Type = TokenIndirectRef
		}
	default:
		err = fmt.Errorf("unexpected character %q at position %d", c, start)
	}

	if err != nil {
		return nil, err
	}
	return tok, nil
}

// scan consumes bytes while keep reports true and returns them.
func (l *Lexer) scan(keep func(byte) bool) []byte {
	var out []byte
	for {
		c, ok := l.peekByte(0)
		if !ok || !keep(c) {
			return out
		}
		l.skip(1)
		out = append(out, c)
	}
}

func (l *Lexer) peekByte(offset int) (byte, bool) {
	buf, err := l.r.Peek(offset + 1)
	if err != nil {
		return 0, false
	}
	return buf[offset], true
}

func (l *Lexer) next() (byte, bool) {
	c, err := l.r.ReadByte()
	if err != nil {
		return 0, false
	}
	l.pos++
	return c, true
}

func (l *Lexer) skip(n int) {
	d, _ := l.r.Discard(n)
	l.pos += int64(d)
}

func (l *Lexer) name() []byte {
	raw := l.scan(func(b byte) bool { return !isWhitespace(b) && !isDelimiter(b) })
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) && isHexDigit(raw[i+1]) && isHexDigit(raw[i+2]) {
			out = append(out, hexValue(raw[i+1])<<4|hexValue(raw[i+2]))
			i += 2
			continue
		}
		out = append(out, raw[i])
	}
	return out
}

// literal reads the body of a "(...)" string after the opening
// parenthesis. Bare CR and CRLF inside the string become LF.
func (l *Lexer) literal(start int64) ([]byte, error) {
	var buf bytes.Buffer
	for depth := 1; ; {
		c, ok := l.next()
		if !ok {
			return nil, fmt.Errorf("unterminated string starting at position %d", start)
		}

		switch c {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				return buf.Bytes(), nil
			}
		case '\r':
			if n, ok := l.peekByte(0); ok && n == '\n' {
				l.skip(1)
			}
			c = '\n'
		case '\\':
			if !l.escape(&buf) {
				return nil, fmt.Errorf("unterminated string starting at position %d", start)
			}
			continue
		}
		buf.WriteByte(c)
	}
}

var escapes = map[byte]byte{'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f'}

// escape handles the sequence after a backslash. It reports false at end
// of input.
func (l *Lexer) escape(buf *bytes.Buffer) bool {
	c, ok := l.next()
	if !ok {
		return false
	}

	switch {
	case escapes[c] != 0:
		buf.WriteByte(escapes[c])
	case c == '\r':
		if n, ok := l.peekByte(0); ok && n == '\n' {
			l.skip(1)
		}
	case c == '\n':
	case isOctalDigit(c):
		v := c - '0'
		for i := 0; i < 2; i++ {
			n, ok := l.peekByte(0)
			if !ok || !isOctalDigit(n) {
				break
			}
			l.skip(1)
			v = v<<3 | (n - '0')
		}
		buf.WriteByte(v)
	default:
		buf.WriteByte(c)
	}
	return true
}

func (l *Lexer) hex(start int64) ([]byte, error) {
	digits := []byte{}
	for {
		c, ok := l.next()
		switch {
		case !ok:
			return nil, fmt.Errorf("unterminated hex string starting at position %d", start)
		case c == '>':
			return digits, nil
		case isHexDigit(c):
			digits = append(digits, c)
		case !isWhitespace(c):
			return nil, fmt.Errorf("invalid hex digit %q at position %d", c, l.pos-1)
		}
	}
}

// number reads an optional sign, digits and at most one decimal point.
func (l *Lexer) number() (TokenType, []byte) {
	typ := TokenInteger
	first := true
	value := l.scan(func(b byte) bool {
		defer func() { first = false }()
		switch {
		case isDigit(b):
			return true
		case b == '.' && typ == TokenInteger:
			typ = TokenReal
			return true
		case (b == '-' || b == '+') && first:
			return true
		}
		return false
	})
	return typ, value
}

// SkipStreamEOL consumes the end of line after the stream keyword: CRLF,
// LF, or a lone CR.
func (l *Lexer) SkipStreamEOL() error {
	if _, err := l.r.Peek(1); err != nil {
		return err
	}
	if c, _ := l.peekByte(0); c == '\r' {
		l.skip(1)
		if _, err := l.r.Peek(1); err != nil {
			return err
		}
	}
	if c, _ := l.peekByte(0); c == '\n' {
		l.skip(1)
	}
	return nil
}

// ReadBytes reads exactly n raw bytes.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	got, err := io.ReadFull(l.r, data)
	l.pos += int64(got)
	if err != nil {
		return data[:got], fmt.Errorf("unexpected EOF: expected %d bytes, got %d", n, got)
	}
	return data, nil
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isDigit(b byte) bool      { return '0' <= b && b <= '9' }
func isOctalDigit(b byte) bool { return '0' <= b && b <= '7' }
func isAlpha(b byte) bool      { return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' }

func isHexDigit(b byte) bool {
	return isDigit(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

func hexValue(b byte) byte {
	switch {
	case isDigit(b):
		return b - '0'
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
