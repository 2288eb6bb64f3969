package table

import (
	"io"
	"unicode/utf8"
)

type quoteState uint8

const (
	fieldStart quoteState = iota
	unquoted
	quoted
	quotedQuote // a '"' seen inside a quoted field
)

// quoteTracker follows the raw bytes handed to a lazy-quote csv.Reader. The
// lazy reader accepts bare quotes in unquoted fields but also turns an
// unterminated quoted field into one long value; the tracker notices that
// case so it can still be reported.
type quoteTracker struct {
	r     io.Reader
	delim byte
	state quoteState
}

func newQuoteTracker(r io.Reader, delim rune) *quoteTracker {
	t := &quoteTracker{r: r}
	if delim < utf8.RuneSelf {
		t.delim = byte(delim)
	}
	return t
}

func (t *quoteTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	for _, b := range p[:n] {
		t.step(b)
	}
	return n, err
}

func (t *quoteTracker) step(b byte) {
	sep := b == '\n' || (t.delim != 0 && b == t.delim)
	switch t.state {
	case fieldStart:
		switch {
		case b == '"':
			t.state = quoted
		case sep || b == '\r':
		default:
			t.state = unquoted
		}
	case unquoted:
		if sep {
			t.state = fieldStart
		}
	case quoted:
		if b == '"' {
			t.state = quotedQuote
		}
	case quotedQuote:
		switch {
		case b == '"':
			t.state = quoted
		case sep:
			t.state = fieldStart
		case b == '\r':
			t.state = unquoted
		default:
			// lazy quotes: a lone quote inside a quoted field is literal
			t.state = quoted
		}
	}
}

// unterminated reports whether the input ended inside a quoted field.
func (t *quoteTracker) unterminated() bool { return t.state == quoted }
