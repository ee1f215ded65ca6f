package lexis_test

import (
	"testing"

	"github.com/coregx/lexis"
	"github.com/coregx/lexis/lexers"
	"github.com/coregx/lexis/styler"
	"github.com/coregx/lexis/wordlist"
)

func TestRegistry(t *testing.T) {
	for _, name := range []string{"sql", "props"} {
		if lexis.Lookup(name) == nil {
			t.Errorf("Lookup(%q) = nil, want a registered lexer", name)
		}
	}
	if lexis.Lookup("cobol") != nil {
		t.Error("Lookup of an unregistered name returned a lexer")
	}
	names := lexis.Names()
	if len(names) < 2 {
		t.Errorf("Names() = %v, want at least sql and props", names)
	}
}

func TestEndToEnd_ColouriseThenFold(t *testing.T) {
	buf := styler.NewBuffer("BEGIN\n  x := 1;\nEND;\n")
	keywords := []*wordlist.Set{
		wordlist.New("begin end select if then else"),
		wordlist.New(""),
		wordlist.New(""),
	}
	sql := lexis.Lookup("sql")
	sql.Colourise(0, buf.Length(), lexers.SQLDefault, keywords, buf)
	sql.Fold(0, buf.Length(), lexers.SQLDefault, buf)

	if buf.StyleAt(0) != lexers.SQLWord {
		t.Errorf("BEGIN styled %d, want keyword", buf.StyleAt(0))
	}
	if buf.LevelAt(0)&styler.FoldLevelHeaderFlag == 0 {
		t.Error("BEGIN line is not a fold header")
	}
}

func TestSearch_Facade(t *testing.T) {
	buf := styler.NewBuffer("select x from t; -- select more")
	s := lexis.NewSearchWithWordClass(buf.IsWordChar)

	if err := s.Compile("select", lexis.FindOptions{}); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	start, end, ok := s.Find(buf, 0, buf.Length())
	if !ok || start != 0 || end != 6 {
		t.Fatalf("Find = [%d,%d) %v, want [0,6) true", start, end, ok)
	}
	if got := s.MarkAll(buf, 0, buf.Length()); len(got) != 2 {
		t.Errorf("MarkAll found %d occurrences, want 2", len(got))
	}

	if err := s.Compile(`\(x\) from`, lexis.FindOptions{MatchCase: true, Regexp: true}); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, _, ok := s.Find(buf, 0, buf.Length()); !ok {
		t.Fatal("regex Find missed")
	}
	if got := s.Substitute(`[\1]`); got != "[x]" {
		t.Errorf("Substitute = %q, want %q", got, "[x]")
	}
}

func TestSearch_LiteralMode(t *testing.T) {
	// Regex mode off: metacharacters are ordinary text.
	buf := styler.NewBuffer("select a.b from t")
	s := lexis.NewSearch()
	if err := s.Compile("a.b", lexis.FindOptions{MatchCase: true}); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	start, end, ok := s.Find(buf, 0, buf.Length())
	if !ok || start != 7 || end != 10 {
		t.Fatalf("Find = [%d,%d) %v, want [7,10) true", start, end, ok)
	}
}

func TestSearch_CompileError(t *testing.T) {
	s := lexis.NewSearch()
	if err := s.Compile("[oops", lexis.FindOptions{Regexp: true}); err == nil {
		t.Fatal("Compile of a broken class succeeded")
	}
	buf := styler.NewBuffer("text")
	if _, _, ok := s.Find(buf, 0, buf.Length()); ok {
		t.Error("Find succeeded with no compiled pattern")
	}
}
