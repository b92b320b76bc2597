// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jscan implements a lexical scanner and a push-style stream parser
// for JSON text that is already held in memory.
//
// Unlike a reader-based scanner, the text of each token is a view of the
// input slice, so no copying happens until a handler asks for it.
package jscan

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A Scanner reads lexical tokens from a byte slice. Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	src []byte
	tok Token
	err error

	pos, end int // start and end offsets of current token
}

// NewScanner constructs a new lexical scanner that consumes src.
// The scanner does not modify src, but the caller must not modify it while
// the scanner is in use.
func NewScanner(src []byte) *Scanner { return &Scanner{src: src} }

// Next advances s to the next token of the input and reports whether a token
// is available. When Next returns false, Err reports why: io.EOF at the end of
// the input, otherwise a lexical error.
func (s *Scanner) Next() bool {
	s.err = nil
	s.tok = Invalid
	for s.end < len(s.src) && isSpace(s.src[s.end]) {
		s.end++
	}
	s.pos = s.end
	if s.end == len(s.src) {
		s.err = io.EOF
		return false
	}

	ch := s.src[s.end]
	var err error
	if t, ok := selfDelim(ch); ok {
		s.end++
		s.tok = t
	} else if isNumStart(ch) {
		err = s.scanNumber()
	} else if ch == '"' {
		err = s.scanString()
	} else {
		switch ch {
		case 't':
			err = s.scanName(True, "true")
		case 'f':
			err = s.scanName(False, "false")
		case 'n':
			err = s.scanName(Null, "null")
		default:
			r, _ := utf8.DecodeRune(s.src[s.end:])
			err = s.failf("unexpected %q", r)
		}
	}
	if err != nil {
		s.tok = Invalid
		s.err = err
		return false
	}
	return true
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The result is a view
// of the input and must not be modified.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Rest returns the unscanned remainder of the input.
func (s *Scanner) Rest() []byte { return s.src[s.end:] }

func (s *Scanner) scanString() error {
	s.end++ // opening quote
	for s.end < len(s.src) {
		ch := s.src[s.end]
		switch {
		case ch == '"':
			s.end++
			s.tok = String
			return nil
		case ch == '\\':
			if s.end+1 >= len(s.src) {
				return s.failf("incomplete escape sequence")
			}
			switch esc := s.src[s.end+1]; esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				s.end += 2
			case 'u':
				if s.end+6 > len(s.src) || !isHex4(s.src[s.end+2:s.end+6]) {
					return s.failf("invalid Unicode escape")
				}
				s.end += 6
			default:
				return s.failf("invalid %q after escape", esc)
			}
		case ch < ' ':
			return s.failf("unescaped control %q", ch)
		default:
			s.end++
		}
	}
	return s.failf("unterminated string")
}

func (s *Scanner) scanNumber() error {
	start := s.end
	if s.src[s.end] == '-' {
		s.end++
		if !isDigit(s.peek()) {
			return s.failf("want digit after sign")
		}
	}
	s.skipWhile(isDigit)

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.src[start:s.end]) {
		return s.failf("extra leading zeroes")
	}

	s.tok = Integer
	if s.peek() == '.' {
		s.end++
		if s.skipWhile(isDigit) == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Number
	}
	if ch := s.peek(); ch == 'e' || ch == 'E' {
		s.end++
		if ch := s.peek(); ch == '+' || ch == '-' {
			s.end++
		}
		if s.skipWhile(isDigit) == 0 {
			return s.failf("missing exponent digits")
		}
		s.tok = Number
	}
	return nil
}

func (s *Scanner) scanName(tok Token, want string) error {
	start := s.end
	s.skipWhile(isNameByte)
	if got := string(s.src[start:s.end]); got != want {
		return s.failf("unknown constant %q", got)
	}
	s.tok = tok
	return nil
}

// peek returns the next unscanned byte, or 0 at the end of input.
func (s *Scanner) peek() byte {
	if s.end < len(s.src) {
		return s.src[s.end]
	}
	return 0
}

// skipWhile advances past bytes matching f and reports how many it skipped.
func (s *Scanner) skipWhile(f func(byte) bool) int {
	n := 0
	for s.end < len(s.src) && f(s.src[s.end]) {
		s.end++
		n++
	}
	return n
}

// PosError is a lexical error annotated with the byte offset where scanning
// failed.
type PosError struct {
	Offset int
	Err    error
}

func (p PosError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.Err.Error(), p.Offset)
}

func (p PosError) Unwrap() error { return p.Err }

func (s *Scanner) failf(msg string, args ...any) error {
	return PosError{Offset: s.end, Err: fmt.Errorf(msg, args...)}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHex4(buf []byte) bool {
	for _, ch := range buf {
		if !(isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the spec.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
