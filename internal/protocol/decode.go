package protocol

import (
	"fmt"
	"iter"
)

// Inbound is one classified server datagram.
type Inbound struct {
	Type MessageType
	Data []byte
}

// ParseInbound classifies a server datagram by its tag. Unrecognized tags
// return ErrUnknownMessageType together with the tag so callers can log it.
func ParseInbound(b []byte) (Inbound, error) {
	if len(b) == 0 {
		return Inbound{}, ErrEmptyMessage
	}
	t := MessageType(b[0])
	if !t.Inbound() {
		return Inbound{Type: t, Data: b}, fmt.Errorf("%w: %s", ErrUnknownMessageType, t)
	}
	return Inbound{Type: t, Data: b}, nil
}

type TokenKind uint8

const (
	TokenCommand TokenKind = iota + 1
	TokenData
	TokenUnknown
)

func (k TokenKind) String() string {
	switch k {
	case TokenCommand:
		return "command"
	case TokenData:
		return "data"
	case TokenUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Token is one (prefix, value) pair of a display update. For TokenUnknown,
// Value carries the offending prefix byte.
type Token struct {
	Kind   TokenKind
	Value  byte
	Offset int
}

func Command(v byte) Token { return Token{Kind: TokenCommand, Value: v} }
func Data(v byte) Token    { return Token{Kind: TokenData, Value: v} }

// Scanner walks the token stream of a display-update datagram. It never
// fails: scanning ends at the first unknown prefix or when fewer than two
// bytes remain.
type Scanner struct {
	buf  []byte
	pos  int
	done bool
}

// NewScanner starts scanning datagram after its header.
func NewScanner(datagram []byte) *Scanner {
	return &Scanner{buf: datagram, pos: HeaderLen}
}

func (s *Scanner) Next() (Token, bool) {
	tok, next, ok := s.scan()
	if !ok {
		s.done = true
		return Token{}, false
	}
	s.pos = next
	if tok.Kind == TokenUnknown {
		s.done = true
	}
	return tok, true
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (Token, bool) {
	tok, _, ok := s.scan()
	return tok, ok
}

// Remaining is the count of unread bytes.
func (s *Scanner) Remaining() int {
	if s.done || s.pos >= len(s.buf) {
		return 0
	}
	return len(s.buf) - s.pos
}

func (s *Scanner) scan() (Token, int, bool) {
	if s.done || s.pos+2 > len(s.buf) {
		return Token{}, s.pos, false
	}
	prefix, value := s.buf[s.pos], s.buf[s.pos+1]
	switch prefix {
	case PrefixCommand:
		return Token{Kind: TokenCommand, Value: value, Offset: s.pos}, s.pos + 2, true
	case PrefixData:
		return Token{Kind: TokenData, Value: value, Offset: s.pos}, s.pos + 2, true
	default:
		return Token{Kind: TokenUnknown, Value: prefix, Offset: s.pos}, len(s.buf), true
	}
}

// Tokens yields the token stream of datagram lazily.
func Tokens(datagram []byte) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		s := NewScanner(datagram)
		for {
			tok, ok := s.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}
