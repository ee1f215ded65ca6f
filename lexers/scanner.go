// Package lexers implements the language lexers: SQL (colourise + fold
// with its nested-statement line states) and properties/INI. Each lexer
// registers itself with the root package under its name.
package lexers

import (
	"strings"

	"github.com/coregx/lexis/styler"
)

// scanner is the streaming cursor the colourise passes run on: current
// and lookahead characters, the open token and its state. Styles are
// flushed to the Styler a token at a time via setState.
type scanner struct {
	sty         styler.Styler
	pos         int
	end         int
	tokenStart  int
	state       byte
	ch          byte
	chPrev      byte
	chNext      byte
	atLineStart bool
}

func newScanner(sty styler.Styler, startPos, length int, initStyle byte) *scanner {
	s := &scanner{
		sty:        sty,
		pos:        startPos,
		end:        startPos + length,
		tokenStart: startPos,
		state:      initStyle,
	}
	sty.StartAt(startPos)
	sty.StartSegment(startPos)
	if startPos > 0 {
		s.chPrev = sty.CharAt(startPos - 1)
	} else {
		s.chPrev = '\n'
	}
	s.ch = sty.CharAt(startPos)
	s.chNext = sty.CharAt(startPos + 1)
	s.atLineStart = s.chPrev == '\n' || (s.chPrev == '\r' && s.ch != '\n')
	return s
}

func (s *scanner) more() bool { return s.pos < s.end }

// forward advances one position.
func (s *scanner) forward() {
	s.pos++
	s.chPrev = s.ch
	s.ch = s.chNext
	s.chNext = s.sty.CharAt(s.pos + 1)
	s.atLineStart = s.chPrev == '\n' || (s.chPrev == '\r' && s.ch != '\n')
}

// setState closes the open token with the current state and opens a new
// one at the current position.
func (s *scanner) setState(state byte) {
	if s.pos > s.tokenStart {
		s.sty.ColourTo(s.pos-1, s.state)
	}
	s.state = state
	s.tokenStart = s.pos
}

// forwardSetState consumes the current character into the open token
// before switching state.
func (s *scanner) forwardSetState(state byte) {
	s.forward()
	s.setState(state)
}

// changeState rewrites the style of the open token without closing it.
func (s *scanner) changeState(state byte) { s.state = state }

// complete flushes the final token.
func (s *scanner) complete() {
	if s.pos > s.tokenStart {
		s.sty.ColourTo(s.pos-1, s.state)
	}
}

// match reports whether the current and next characters are a and b.
func (s *scanner) match(a, b byte) bool { return s.ch == a && s.chNext == b }

// currentLowered returns the open token text, lower-cased.
func (s *scanner) currentLowered() string {
	var b strings.Builder
	b.Grow(s.pos - s.tokenStart)
	for i := s.tokenStart; i < s.pos; i++ {
		ch := s.sty.CharAt(i)
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// nextNonSpace returns the first character at or after pos that is not a
// space or tab.
func nextNonSpace(sty styler.Styler, pos int) byte {
	for ; pos < sty.Length(); pos++ {
		ch := sty.CharAt(pos)
		if ch != ' ' && ch != '\t' {
			return ch
		}
	}
	return 0
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSpaceOrTab(ch byte) bool { return ch == ' ' || ch == '\t' }

func lowerByte(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 'a' - 'A'
	}
	return ch
}
