package lexers

import (
	"testing"

	"github.com/coregx/lexis/styler"
)

func colouriseProps(t *testing.T, text string, props map[string]string) *styler.Buffer {
	t.Helper()
	buf := styler.NewBuffer(text)
	for name, value := range props {
		buf.SetProperty(name, value)
	}
	NewProps().Colourise(0, buf.Length(), PropsDefault, nil, buf)
	return buf
}

func TestPropsColourise(t *testing.T) {
	tests := []struct {
		name string
		text string
		runs []styleRun
	}{
		{
			"comment lines",
			"# one\n; two\n! three\n",
			[]styleRun{
				{0, 4, PropsComment},
				{6, 10, PropsComment},
				{12, 18, PropsComment},
			},
		},
		{
			"section",
			"[main]\n",
			[]styleRun{{0, 5, PropsSection}},
		},
		{
			"key value",
			"key=value\n",
			[]styleRun{
				{0, 2, PropsKey},
				{3, 3, PropsAssignment},
				{4, 8, PropsDefault},
			},
		},
		{
			"colon assignment",
			"key:value\n",
			[]styleRun{
				{0, 2, PropsKey},
				{3, 3, PropsAssignment},
				{4, 8, PropsDefault},
			},
		},
		{
			"default value",
			"@=1\n",
			[]styleRun{
				{0, 0, PropsDefVal},
				{1, 1, PropsAssignment},
				{2, 3, PropsDefault},
			},
		},
		{
			"bare line",
			"no assignment here\n",
			[]styleRun{{0, 17, PropsDefault}},
		},
		{
			"indented key",
			"  key=v\n",
			[]styleRun{
				{0, 4, PropsKey},
				{5, 5, PropsAssignment},
				{6, 6, PropsDefault},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := colouriseProps(t, tt.text, nil)
			checkRuns(t, buf, tt.runs)
		})
	}
}

func TestPropsColourise_NoInitialSpaces(t *testing.T) {
	buf := colouriseProps(t, "  # not a comment\n",
		map[string]string{"lexer.props.allow.initial.spaces": "0"})
	// With initial spaces disallowed the line is dispatched on its first
	// byte, a space, so it is not a comment.
	if got := buf.StyleAt(2); got == PropsComment {
		t.Errorf("style at 2 = comment, want non-comment")
	}
}

func TestPropsFold(t *testing.T) {
	text := "top=1\n[a]\nk=1\n\n[b]\nk=2\n"
	buf := styler.NewBuffer(text)
	lexer := NewProps()
	lexer.Colourise(0, buf.Length(), PropsDefault, nil, buf)
	lexer.Fold(0, buf.Length(), PropsDefault, buf)

	type propsLine struct {
		level  int
		header bool
		white  bool
	}
	want := []propsLine{
		{0, false, false}, // top=1
		{0, true, false},  // [a]
		{1, false, false}, // k=1
		{1, false, true},  // blank
		{0, true, false},  // [b]
		{1, false, false}, // k=2
	}
	for line, w := range want {
		lev := buf.LevelAt(line)
		level := lev&styler.FoldLevelNumberMask - styler.FoldLevelBase
		header := lev&styler.FoldLevelHeaderFlag != 0
		white := lev&styler.FoldLevelWhiteFlag != 0
		if level != w.level || header != w.header || white != w.white {
			t.Errorf("line %d: level=%d header=%v white=%v, want %+v", line, level, header, white, w)
		}
	}
}
