package lexers

import (
	"github.com/coregx/lexis"
	"github.com/coregx/lexis/styler"
	"github.com/coregx/lexis/wordlist"
)

// Properties/INI character styles.
const (
	PropsDefault byte = iota
	PropsComment
	PropsSection
	PropsAssignment
	PropsDefVal
	PropsKey
)

// PropsLexer lexes .properties/.ini files. It exists mostly as the
// smallest complete exercise of the Styler contract; every line is
// dispatched on its first non-blank byte.
type PropsLexer struct{}

// NewProps creates a properties lexer.
func NewProps() *PropsLexer { return &PropsLexer{} }

// Name implements lexis.Lexer.
func (l *PropsLexer) Name() string { return "props" }

func init() { lexis.Register(NewProps()) }

// colouriseLine styles one line [pos, eol).
func (l *PropsLexer) colouriseLine(sty styler.Styler, pos, eol int, allowInitialSpaces bool) {
	i := pos
	if allowInitialSpaces {
		for i < eol && isSpaceOrTab(sty.CharAt(i)) {
			i++
		}
	}
	sty.StartSegment(pos)
	if i >= eol {
		sty.ColourTo(eol-1, PropsDefault)
		return
	}
	switch ch := sty.CharAt(i); {
	case ch == '#' || ch == ';' || ch == '!':
		sty.ColourTo(eol-1, PropsComment)
	case ch == '[':
		sty.ColourTo(eol-1, PropsSection)
	case ch == '@':
		sty.ColourTo(i, PropsDefVal)
		if i+1 < eol && sty.CharAt(i+1) == '=' {
			sty.ColourTo(i+1, PropsAssignment)
		}
		if eol-1 >= i+1 {
			sty.ColourTo(eol-1, PropsDefault)
		}
	default:
		// Scan for the assignment character splitting key from value.
		assign := -1
		for j := i; j < eol; j++ {
			c := sty.CharAt(j)
			if c == '=' || c == ':' {
				assign = j
				break
			}
		}
		if assign < 0 {
			sty.ColourTo(eol-1, PropsDefault)
			return
		}
		if assign > pos {
			sty.ColourTo(assign-1, PropsKey)
		}
		sty.ColourTo(assign, PropsAssignment)
		if assign+1 <= eol-1 {
			sty.ColourTo(eol-1, PropsDefault)
		}
	}
}

// Colourise implements lexis.Lexer. Properties files are line-oriented, so
// the pass starts at the beginning of the line containing startPos; it
// still stops at startPos+length, even inside a line. initStyle is ignored
// because no state crosses a line break.
func (l *PropsLexer) Colourise(startPos, length int, initStyle byte, keywords []*wordlist.Set, sty styler.Styler) {
	allowInitialSpaces := sty.GetPropertyInt("lexer.props.allow.initial.spaces", 1) != 0

	line := sty.GetLine(startPos)
	endPos := startPos + length
	sty.StartAt(sty.LineStart(line))
	for {
		pos := sty.LineStart(line)
		if pos >= endPos || pos >= sty.Length() {
			break
		}
		eol := sty.LineStart(line + 1)
		if eol > endPos {
			eol = endPos
		}
		if eol > pos {
			l.colouriseLine(sty, pos, eol, allowInitialSpaces)
		}
		line++
	}
}

// Fold implements lexis.Lexer: a section line is a header and everything
// below it sits one level deeper until the next section.
func (l *PropsLexer) Fold(startPos, length int, initStyle byte, sty styler.Styler) {
	if sty.GetPropertyInt("fold", 1) == 0 {
		return
	}
	foldCompact := sty.GetPropertyInt("fold.compact", 1) != 0

	endPos := startPos + length
	lineCurrent := sty.GetLine(startPos)

	// Resume below the previous section, if any.
	insideSection := false
	if lineCurrent > 0 {
		prev := sty.LevelAt(lineCurrent - 1)
		insideSection = prev&styler.FoldLevelNumberMask > styler.FoldLevelBase ||
			prev&styler.FoldLevelHeaderFlag != 0
	}

	for pos := startPos; pos < endPos; pos = sty.LineStart(lineCurrent) {
		eol := sty.LineStart(lineCurrent + 1)
		isSection := false
		blank := true
		for i := pos; i < eol; i++ {
			ch := sty.CharAt(i)
			if sty.StyleAt(i) == PropsSection && ch == '[' {
				isSection = true
			}
			if !isSpaceOrTab(ch) && ch != '\r' && ch != '\n' {
				blank = false
			}
		}

		lev := styler.FoldLevelBase
		switch {
		case isSection:
			lev |= styler.FoldLevelHeaderFlag
			insideSection = true
		case insideSection:
			lev = styler.FoldLevelBase + 1
		}
		if blank && foldCompact {
			lev |= styler.FoldLevelWhiteFlag
		}
		if lev != sty.LevelAt(lineCurrent) {
			sty.SetLevel(lineCurrent, lev)
		}
		lineCurrent++
		if sty.LineStart(lineCurrent) <= pos {
			break
		}
	}
}
