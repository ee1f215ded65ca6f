package lexers

import (
	"github.com/coregx/lexis"
	"github.com/coregx/lexis/styler"
	"github.com/coregx/lexis/wordlist"
)

// SQL character styles.
const (
	SQLDefault byte = iota
	SQLComment
	SQLCommentLine
	SQLCommentLineDoc
	SQLNumber
	SQLHex
	SQLHex2
	SQLBit
	SQLBit2
	SQLWord
	SQLWord2
	SQLUser1
	SQLString
	SQLCharacter
	SQLVariable
	SQLIdentifier
	SQLQuotedIdentifier
	SQLOperator
)

// Keyword list slots passed to Colourise.
const (
	SQLKeywords  = 0 // statement keywords -> SQLWord
	SQLKeywords2 = 1 // database objects / types -> SQLWord2
	SQLUserList1 = 2 // abbreviated function names -> SQLUser1
)

// SQLLexer lexes and folds SQL. The fold pass carries a per-line state
// vector in the instance, so a host gives each document its own lexer the
// same way it gives each document its own style store.
type SQLLexer struct {
	states lineStates
}

// NewSQL creates a SQL lexer.
func NewSQL() *SQLLexer { return &SQLLexer{} }

// Name implements lexis.Lexer.
func (l *SQLLexer) Name() string { return "sql" }

func init() { lexis.Register(NewSQL()) }

func isSQLOperator(ch byte) bool {
	switch ch {
	case '%', '^', '&', '*', '(', ')', '-', '+', '=', '|', '{', '}',
		'[', ']', ':', ';', '<', '>', ',', '/', '?', '!', '.', '~':
		return true
	}
	return false
}

func isWordStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isSQLWordChar(ch byte, allowDotted bool) bool {
	return isWordStart(ch) || isDigit(ch) || ch == '$' || (allowDotted && ch == '.')
}

// isNumberChar continues a numeric literal: digits, 'e'/'E', a dot not
// following a dot, and a sign only right after 'e'/'E'. The number of
// exponent markers and of non-adjacent dots is not limited.
func isNumberChar(ch, chPrev byte) bool {
	if isDigit(ch) || ch == 'e' || ch == 'E' {
		return true
	}
	if ch == '.' {
		return chPrev != '.'
	}
	if ch == '+' || ch == '-' {
		return chPrev == 'e' || chPrev == 'E'
	}
	return false
}

// Colourise implements lexis.Lexer. It assigns exactly one style to every
// position of the range and may be restarted at any host-indicated safe
// point by passing the style in effect there as initStyle.
func (l *SQLLexer) Colourise(startPos, length int, initStyle byte, keywords []*wordlist.Set, sty styler.Styler) {
	backticks := sty.GetPropertyInt("lexer.sql.backticks.identifier", 1) != 0
	numbersign := sty.GetPropertyInt("lexer.sql.numbersign.comment", 1) != 0
	backslashEscapes := sty.GetPropertyInt("lexer.sql.backslash.escapes", 1) != 0
	allowDotted := sty.GetPropertyInt("lexer.sql.allow.dotted.word", 0) != 0

	var kw1, kw2, user1 *wordlist.Set
	if len(keywords) > SQLKeywords {
		kw1 = keywords[SQLKeywords]
	}
	if len(keywords) > SQLKeywords2 {
		kw2 = keywords[SQLKeywords2]
	}
	if len(keywords) > SQLUserList1 {
		user1 = keywords[SQLUserList1]
	}

	sc := newScanner(sty, startPos, length, initStyle)
	for ; sc.more(); sc.forward() {
		if sc.atLineStart && (sc.state == SQLCommentLine || sc.state == SQLCommentLineDoc) {
			sc.setState(SQLDefault)
		}

		switch sc.state {
		case SQLOperator:
			sc.setState(SQLDefault)
		case SQLNumber:
			if !isNumberChar(sc.ch, sc.chPrev) {
				sc.setState(SQLDefault)
			}
		case SQLHex:
			if !isHexDigit(sc.ch) {
				sc.setState(SQLDefault)
			}
		case SQLBit:
			if sc.ch != '0' && sc.ch != '1' {
				sc.setState(SQLDefault)
			}
		case SQLHex2, SQLBit2:
			if sc.ch == '\'' || sc.ch == '"' {
				sc.forwardSetState(SQLDefault)
			}
		case SQLVariable:
			if !isSQLWordChar(sc.ch, false) {
				sc.setState(SQLDefault)
			}
		case SQLIdentifier:
			if !isSQLWordChar(sc.ch, allowDotted) {
				l.classifyIdentifier(sc, kw1, kw2, user1)
			}
		case SQLQuotedIdentifier:
			if sc.ch == '`' {
				if sc.chNext == '`' {
					sc.forward()
				} else {
					sc.forwardSetState(SQLDefault)
				}
			}
		case SQLComment:
			if sc.match('*', '/') {
				sc.forward()
				sc.forwardSetState(SQLDefault)
			}
		case SQLString:
			if backslashEscapes && sc.ch == '\\' {
				sc.forward()
			} else if sc.ch == '"' {
				if sc.chNext == '"' {
					sc.forward()
				} else {
					sc.forwardSetState(SQLDefault)
				}
			}
		case SQLCharacter:
			if backslashEscapes && sc.ch == '\\' {
				sc.forward()
			} else if sc.ch == '\'' {
				if sc.chNext == '\'' || sc.chNext == '"' {
					// Doubled quote escape; the quote-quote pair is kept
					// for compatibility with legacy scripts.
					sc.forward()
				} else {
					sc.forwardSetState(SQLDefault)
				}
			}
		}

		if sc.state == SQLDefault {
			switch {
			case sc.ch == '0' && (sc.chNext == 'x' || sc.chNext == 'X'):
				sc.setState(SQLHex)
				sc.forward()
			case (sc.ch == 'x' || sc.ch == 'X') && (sc.chNext == '\'' || sc.chNext == '"'):
				sc.setState(SQLHex2)
				sc.forward()
			case sc.ch == '0' && (sc.chNext == 'b' || sc.chNext == 'B'):
				sc.setState(SQLBit)
				sc.forward()
			case (sc.ch == 'b' || sc.ch == 'B') && sc.chNext == '\'':
				sc.setState(SQLBit2)
				sc.forward()
			case isDigit(sc.ch) || (sc.ch == '.' && isDigit(sc.chNext)):
				sc.setState(SQLNumber)
			case sc.ch == '@' && isSQLWordChar(sc.chNext, false):
				sc.setState(SQLVariable)
			case isWordStart(sc.ch):
				sc.setState(SQLIdentifier)
			case sc.ch == '`' && backticks:
				sc.setState(SQLQuotedIdentifier)
			case sc.match('/', '*'):
				sc.setState(SQLComment)
				sc.forward()
			case sc.match('-', '-'):
				sc.setState(SQLCommentLine)
			case sc.ch == '#' && numbersign:
				sc.setState(SQLCommentLineDoc)
			case sc.ch == '\'':
				sc.setState(SQLCharacter)
			case sc.ch == '"':
				sc.setState(SQLString)
			case isSQLOperator(sc.ch):
				sc.setState(SQLOperator)
			}
		}
	}

	// The stream is exhausted with a token still open; identifiers get one
	// final resolution step so trailing keywords colour correctly.
	if sc.state == SQLIdentifier {
		l.classifyIdentifier(sc, kw1, kw2, user1)
	}
	sc.complete()
}

// classifyIdentifier closes the identifier token under the cursor and
// resolves its final style through the keyword lists.
func (l *SQLLexer) classifyIdentifier(sc *scanner, kw1, kw2, user1 *wordlist.Set) {
	word := sc.currentLowered()
	switch {
	case kw1.InList(word):
		sc.changeState(SQLWord)
	case kw2.InList(word):
		sc.changeState(SQLWord2)
	default:
		if nextNonSpace(sc.sty, sc.pos) == '(' && user1.InListAbbreviated(word, '(') {
			sc.changeState(SQLUser1)
		}
	}
	sc.setState(SQLDefault)
}
