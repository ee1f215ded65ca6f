package lexers

import (
	"strings"
	"testing"

	"github.com/coregx/lexis/styler"
)

// foldSQL colourises then folds text and returns the buffer.
func foldSQL(t *testing.T, text string, props map[string]string) *styler.Buffer {
	t.Helper()
	buf := styler.NewBuffer(text)
	for name, value := range props {
		buf.SetProperty(name, value)
	}
	lexer := NewSQL()
	lexer.Colourise(0, buf.Length(), SQLDefault, testLists(), buf)
	lexer.Fold(0, buf.Length(), SQLDefault, buf)
	return buf
}

// lineLevel unpacks the stored word into (level, nextLevel, header), both
// levels relative to the fold base.
func lineLevel(buf *styler.Buffer, line int) (int, int, bool) {
	lev := buf.LevelAt(line)
	level := lev&styler.FoldLevelNumberMask - styler.FoldLevelBase
	next := lev>>16&styler.FoldLevelNumberMask - styler.FoldLevelBase
	return level, next, lev&styler.FoldLevelHeaderFlag != 0
}

type foldLine struct {
	level  int
	next   int
	header bool
}

func checkFold(t *testing.T, buf *styler.Buffer, want []foldLine) {
	t.Helper()
	for line, w := range want {
		level, next, header := lineLevel(buf, line)
		if level != w.level || next != w.next || header != w.header {
			t.Errorf("line %d: level=%d next=%d header=%v, want level=%d next=%d header=%v",
				line, level, next, header, w.level, w.next, w.header)
		}
		if header != (next > level) {
			t.Errorf("line %d: header flag %v inconsistent with levels %d -> %d", line, header, level, next)
		}
	}
}

func TestSQLFold_BeginEnd(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"BEGIN",
		"  x := 1;",
		"END;",
	}, "\n"), nil)
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 1, false},
		{1, 0, false},
	})
}

func TestSQLFold_SingleLineIfOpensNothing(t *testing.T) {
	// statementFound suppression: the whole statement lives on one line,
	// so no fold is opened even with fold-at-else enabled.
	buf := foldSQL(t, "IF a THEN b; ELSE c; END IF;\n",
		map[string]string{"fold.sql.at.else": "1"})
	checkFold(t, buf, []foldLine{
		{0, 0, false},
	})
}

func TestSQLFold_IfThenElse(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"IF a THEN",
		"  b;",
		"ELSE",
		"  c;",
		"END IF;",
	}, "\n"), map[string]string{"fold.sql.at.else": "1"})
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 1, false},
		{0, 1, true}, // ELSE drops the line level, keeping the body folded
		{1, 1, false},
		{1, 0, false},
	})
}

func TestSQLFold_ExceptionBlock(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"BEGIN",
		"  x := 1;",
		"EXCEPTION",
		"  WHEN others THEN",
		"    y := 2;",
		"END;",
	}, "\n"), nil)
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 1, false},
		{1, 1, false}, // EXCEPTION itself changes no level
		{1, 1, false}, // WHEN is inert inside the exception block
		{1, 1, false},
		{1, 0, false},
	})
	// The exception flag is consumed by the closing "END;".
	lexer := NewSQL()
	lexer.Colourise(0, buf.Length(), SQLDefault, testLists(), buf)
	lexer.Fold(0, buf.Length(), SQLDefault, buf)
	if st := lexer.states.ForLine(6); st.has(maskInException) {
		t.Error("exception flag still set after END;")
	}
}

func TestSQLFold_SingleLineMerge(t *testing.T) {
	buf := foldSQL(t,
		"MERGE INTO t USING s ON (x) WHEN MATCHED THEN a WHEN NOT MATCHED THEN b;\n",
		nil)
	checkFold(t, buf, []foldLine{
		{0, 0, false},
	})
}

func TestSQLFold_MultiLineMerge(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"MERGE INTO t USING s ON (x)",
		"WHEN MATCHED THEN",
		"  update_it",
		"WHEN NOT MATCHED THEN",
		"  insert_it",
		";",
	}, "\n"), nil)
	checkFold(t, buf, []foldLine{
		{0, 1, true},  // MERGE opens
		{1, 2, true},  // first WHEN consumes the without-when credit, THEN opens
		{2, 2, false},
		{1, 2, true},  // later WHEN drops out of the arm, THEN reopens
		{2, 2, false},
		{2, 0, false}, // the terminator closes the arm and the MERGE
	})
}

func TestSQLFold_NestedCase(t *testing.T) {
	text := "CASE x WHEN 1 THEN CASE y WHEN 2 THEN 'a' END END\n"
	buf := styler.NewBuffer(text)
	lexer := NewSQL()
	lexer.Colourise(0, buf.Length(), SQLDefault, testLists(), buf)
	lexer.Fold(0, buf.Length(), SQLDefault, buf)

	// Net level change across the line is zero.
	checkFold(t, buf, []foldLine{
		{0, 0, false},
	})
	// The nested-case counter returned to zero in the carried state.
	if st := lexer.states.ForLine(1); st.nestedCases() != 0 {
		t.Errorf("nested case depth carried into next line = %d, want 0", st.nestedCases())
	}
}

func TestSQLFold_CommentFolding(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"/* block */ -- trailer",
		"-- line one",
		"-- line two",
		"x",
	}, "\n"), map[string]string{"fold.comment": "1"})
	checkFold(t, buf, []foldLine{
		{0, 0, false}, // stream comment opens and closes within the line
		{0, 1, true},  // first of a comment group is its header
		{1, 0, false},
		{0, 0, false},
	})
}

func TestSQLFold_StreamCommentFolding(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"/* one",
		"   two",
		"*/",
		"x",
	}, "\n"), map[string]string{"fold.comment": "1"})
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 1, false},
		{1, 0, false},
		{0, 0, false},
	})
}

func TestSQLFold_ParenFolding(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"insert into t (",
		"  a,",
		"  b",
		");",
	}, "\n"), nil)
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 1, false},
		{1, 1, false},
		{1, 0, false},
	})
}

func TestSQLFold_LevelNeverBelowBase(t *testing.T) {
	buf := foldSQL(t, strings.Join([]string{
		"END; END; END;",
		"BEGIN",
		"END;",
	}, "\n"), nil)
	for line := 0; line < buf.Lines(); line++ {
		if lev := buf.LevelAt(line) & styler.FoldLevelNumberMask; lev < styler.FoldLevelBase {
			t.Errorf("line %d level %#x below fold base", line, lev)
		}
		next := buf.LevelAt(line) >> 16 & styler.FoldLevelNumberMask
		if next != 0 && next < styler.FoldLevelBase {
			t.Errorf("line %d next level %#x below fold base", line, next)
		}
	}
}

func TestSQLFold_WhiteLines(t *testing.T) {
	buf := foldSQL(t, "BEGIN\n\n  x;\nEND;\n", nil)
	if buf.LevelAt(1)&styler.FoldLevelWhiteFlag == 0 {
		t.Error("blank line missing the white flag under fold.compact")
	}
	buf = foldSQL(t, "BEGIN\n\n  x;\nEND;\n", map[string]string{"fold.compact": "0"})
	if buf.LevelAt(1)&styler.FoldLevelWhiteFlag != 0 {
		t.Error("white flag set with fold.compact off")
	}
}

func TestSQLFold_SelectCaseAssignment(t *testing.T) {
	// The extra unfold for END closing a CASE used as an expression inside
	// an assignment.
	buf := foldSQL(t, strings.Join([]string{
		"x := CASE",
		"WHEN a THEN 1",
		"WHEN b THEN 2",
		"END;",
	}, "\n"), nil)
	checkFold(t, buf, []foldLine{
		{0, 1, true},
		{1, 2, true},
		{1, 2, true},
		{2, 0, false},
	})
}
