package lexers

import "github.com/coregx/lexis/styler"

// sqlLineState is the packed per-line nested-statement state the folder
// carries across lines. The low nine bits count nested CASE blocks,
// saturating at the field width; the remaining bits are independent flags.
type sqlLineState uint16

const (
	maskNestedCases     sqlLineState = 0x01FF
	maskInSelect        sqlLineState = 0x0200
	maskCaseMergeNoWhen sqlLineState = 0x0400
	maskInMerge         sqlLineState = 0x0800
	maskInDeclare       sqlLineState = 0x1000
	maskInException     sqlLineState = 0x2000
	maskInCondition     sqlLineState = 0x4000
	maskIgnoreWhen      sqlLineState = 0x8000
)

func (s sqlLineState) nestedCases() int { return int(s & maskNestedCases) }

func (s sqlLineState) beginCase() sqlLineState {
	if s&maskNestedCases == maskNestedCases {
		return s // saturate instead of spilling into the flags
	}
	return s + 1
}

func (s sqlLineState) endCase() sqlLineState {
	if s&maskNestedCases == 0 {
		return s
	}
	return s - 1
}

func (s sqlLineState) has(mask sqlLineState) bool { return s&mask != 0 }

func (s sqlLineState) with(mask sqlLineState, on bool) sqlLineState {
	if on {
		return s | mask
	}
	return s &^ mask
}

// lineStates persists one state word per source line so a fold pass can
// restart from any line. States are stored unconditionally; the vector
// grows to cover the highest line seen.
type lineStates struct {
	states []sqlLineState
}

func (ls *lineStates) Set(line int, st sqlLineState) {
	if line < 0 {
		return
	}
	for len(ls.states) <= line {
		ls.states = append(ls.states, 0)
	}
	ls.states[line] = st
}

func (ls *lineStates) ForLine(line int) sqlLineState {
	if line < 0 || line >= len(ls.states) {
		return 0
	}
	return ls.states[line]
}

func isStreamCommentStyle(style byte) bool { return style == SQLComment }

func isLineCommentStyle(style byte) bool {
	return style == SQLCommentLine || style == SQLCommentLineDoc
}

// isCommentLine reports whether line consists of nothing but blank space
// and a line comment, the unit the comment-group folding works in.
func isCommentLine(line int, sty styler.Styler) bool {
	if line < 0 {
		return false
	}
	pos := sty.LineStart(line)
	eol := sty.LineStart(line+1) - 1
	for i := pos; i < eol; i++ {
		ch := sty.CharAt(i)
		if (ch == '-' || ch == '#') && isLineCommentStyle(sty.StyleAt(i)) {
			return true
		}
		if !isSpaceOrTab(ch) && ch != '\r' && ch != '\n' {
			return false
		}
	}
	return false
}

// Fold implements lexis.Lexer. It reads the styles Colourise assigned and
// stores a packed fold word per line: the line's level, the next line's
// start level in the high half, and the header/white flags.
func (l *SQLLexer) Fold(startPos, length int, initStyle byte, sty styler.Styler) {
	foldComment := sty.GetPropertyInt("fold.comment", 0) != 0
	foldCompact := sty.GetPropertyInt("fold.compact", 1) != 0
	foldAtElse := sty.GetPropertyInt("fold.sql.at.else", 0) != 0
	foldOnlyBegin := sty.GetPropertyInt("fold.sql.only.begin", 0) != 0

	endPos := startPos + length
	visibleChars := 0
	lineCurrent := sty.GetLine(startPos)
	levelCurrent := styler.FoldLevelBase
	if lineCurrent > 0 {
		levelCurrent = sty.LevelAt(lineCurrent-1) >> 16
	}
	levelNext := levelCurrent
	style := initStyle
	styleNext := sty.StyleAt(startPos)
	endFound := false
	isUnfoldingIgnored := false
	// Suppresses fold changes from ELSE/ELSIF/WHEN when the block opener
	// already appeared earlier on the same line.
	statementFound := false
	var st sqlLineState
	if !foldOnlyBegin {
		st = l.states.ForLine(lineCurrent)
	}

	var wordBuf [12]byte
	wordLen := 0

	for i := startPos; i < endPos; i++ {
		ch := sty.CharAt(i)
		chNext := sty.CharAt(i + 1)
		stylePrev := style
		style = styleNext
		styleNext = sty.StyleAt(i + 1)
		atEOL := (ch == '\r' && chNext != '\n') || ch == '\n'

		if foldComment && isStreamCommentStyle(style) {
			if !isStreamCommentStyle(stylePrev) {
				levelNext++
			} else if !isStreamCommentStyle(styleNext) && !foldOnlyBegin {
				levelNext--
			}
		}
		if foldComment && atEOL && isCommentLine(lineCurrent, sty) {
			if !isCommentLine(lineCurrent-1, sty) && isCommentLine(lineCurrent+1, sty) {
				levelNext++
			} else if isCommentLine(lineCurrent-1, sty) && !isCommentLine(lineCurrent+1, sty) {
				levelNext--
			}
		}

		if style == SQLOperator {
			switch {
			case ch == '(':
				// Allow one header-style drop per line so "x (" renders
				// as a fold header.
				if levelCurrent > levelNext {
					levelCurrent--
				}
				levelNext++
			case ch == ')':
				levelNext--
			case ch == ';' && !foldOnlyBegin:
				st = st.with(maskIgnoreWhen, false)
				if st.has(maskInMerge) {
					if !st.has(maskCaseMergeNoWhen) {
						levelNext--
					}
					levelNext--
					st = st.with(maskInMerge, false)
					st = st.with(maskCaseMergeNoWhen, false)
				}
				st = st.with(maskInSelect, false)
				if st.has(maskInException) && endFound {
					st = st.with(maskInException, false)
				}
				endFound = false
			case ch == ':' && chNext == '=' && !foldOnlyBegin:
				st = st.with(maskInSelect, true)
			}
		}

		if style == SQLWord {
			if wordLen < len(wordBuf) {
				wordBuf[wordLen] = lowerByte(ch)
				wordLen++
			}
			if styleNext != SQLWord {
				if wordLen <= 10 {
					word := string(wordBuf[:wordLen])
					levelCurrent, levelNext, st, endFound, isUnfoldingIgnored, statementFound =
						l.foldKeyword(word, levelCurrent, levelNext, st,
							endFound, isUnfoldingIgnored, statementFound,
							foldAtElse, foldOnlyBegin)
				}
				wordLen = 0
			}
		}

		if !isSpaceOrTab(ch) && ch != '\r' && ch != '\n' {
			visibleChars++
		}

		if atEOL || i == endPos-1 {
			lev := levelCurrent | levelNext<<16
			if visibleChars == 0 && foldCompact {
				lev |= styler.FoldLevelWhiteFlag
			}
			if levelCurrent < levelNext {
				lev |= styler.FoldLevelHeaderFlag
			}
			if lev != sty.LevelAt(lineCurrent) {
				sty.SetLevel(lineCurrent, lev)
			}
			lineCurrent++
			levelCurrent = levelNext
			visibleChars = 0
			statementFound = false
			if !foldOnlyBegin {
				l.states.Set(lineCurrent, st)
			}
		}
	}
}

// foldKeyword applies one completed WORD lexeme to the fold machine.
func (l *SQLLexer) foldKeyword(word string, levelCurrent, levelNext int, st sqlLineState,
	endFound, isUnfoldingIgnored, statementFound bool,
	foldAtElse, foldOnlyBegin bool) (int, int, sqlLineState, bool, bool, bool) {

	switch word {
	case "if", "loop", "case", "while", "repeat":
		if endFound {
			// This closes the block: "end if", "end loop", ...
			endFound = false
			if foldOnlyBegin && !isUnfoldingIgnored {
				// The earlier END was not for a BEGIN block; give the
				// level back.
				levelNext++
			}
			isUnfoldingIgnored = false
			break
		}
		if foldOnlyBegin {
			break
		}
		if word == "if" {
			st = st.with(maskInCondition, true)
		}
		if word == "case" {
			st = st.beginCase()
			st = st.with(maskCaseMergeNoWhen, true)
		}
		// Keep the opener line outside the block it opens, even after an
		// earlier END dropped the line level ("END; IF" on one line).
		if levelCurrent > levelNext {
			levelCurrent = levelNext
		}
		if !statementFound {
			levelNext++
		}
		statementFound = true

	case "then":
		if foldOnlyBegin || !st.has(maskInCondition) {
			break
		}
		st = st.with(maskInCondition, false)
		if !statementFound {
			levelNext++
		}
		statementFound = true

	case "select":
		if !foldOnlyBegin {
			st = st.with(maskInSelect, true)
		}

	case "when":
		if foldOnlyBegin || st.has(maskIgnoreWhen) || st.has(maskInException) {
			break
		}
		if st.nestedCases() == 0 && !st.has(maskInMerge) {
			break
		}
		st = st.with(maskInCondition, true)
		if !statementFound {
			if !st.has(maskCaseMergeNoWhen) {
				levelCurrent--
				levelNext--
			}
			st = st.with(maskCaseMergeNoWhen, false)
		}

	case "elsif":
		if foldAtElse && !foldOnlyBegin && !statementFound {
			st = st.with(maskInCondition, true)
			levelCurrent--
		}

	case "else":
		if !foldAtElse || foldOnlyBegin || statementFound {
			break
		}
		statementFound = true
		if st.nestedCases() > 0 && st.has(maskCaseMergeNoWhen) {
			// A CASE with no WHEN arms: its ELSE is the first arm.
			st = st.with(maskCaseMergeNoWhen, false)
			levelNext++
		} else {
			levelCurrent--
		}

	case "begin", "start":
		levelNext++
		st = st.with(maskInDeclare, false)
		statementFound = true

	case "end", "endif":
		endFound = true
		levelNext--
		if st.has(maskInSelect) && !st.has(maskCaseMergeNoWhen) {
			levelNext--
		}
		if levelNext < styler.FoldLevelBase {
			levelNext = styler.FoldLevelBase
			isUnfoldingIgnored = true
		}
		if !foldOnlyBegin && st.nestedCases() > 0 {
			st = st.endCase()
		}

	case "exit":
		if !foldOnlyBegin {
			st = st.with(maskIgnoreWhen, true)
		}

	case "exception":
		if !foldOnlyBegin && !st.has(maskInDeclare) {
			st = st.with(maskInException, true)
		}

	case "declare", "function", "procedure", "package":
		if !foldOnlyBegin {
			st = st.with(maskInDeclare, true)
		}

	case "merge":
		if foldOnlyBegin {
			break
		}
		st = st.with(maskInMerge, true)
		st = st.with(maskCaseMergeNoWhen, true)
		levelNext++
		statementFound = true
	}

	return levelCurrent, levelNext, st, endFound, isUnfoldingIgnored, statementFound
}
