// Command lexis colourises and folds a source file from the command line.
// It is a development harness for the lexers: it renders the style runs
// (with ANSI colours when stdout is a terminal), prints per-line fold
// levels, and can run a search pattern over the file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/coregx/lexis"
	_ "github.com/coregx/lexis/lexers"
	"github.com/coregx/lexis/styler"
	"github.com/coregx/lexis/wordlist"
)

type options struct {
	Lexer     string            `long:"lexer" default:"sql" description:"Lexer to run (sql, props)"`
	Keywords  string            `long:"keywords" description:"YAML file with keyword lists"`
	Fold      bool              `long:"fold" description:"Print per-line fold levels"`
	Find      string            `long:"find" description:"Search pattern to run over the file"`
	MatchCase bool              `long:"match-case" description:"Case-sensitive search"`
	WholeWord bool              `long:"whole-word" description:"Whole-word search"`
	Regexp    bool              `long:"regexp" description:"Treat the search pattern as a regular expression"`
	Props     map[string]string `short:"p" long:"property" description:"Lexer property, name:value"`
	Debug     bool              `long:"debug" description:"Dump the styled document structure"`
	Args      struct {
		File string `positional-arg-name:"file" required:"true"`
	} `positional-args:"true"`
}

// keywordFile is the on-disk shape of --keywords.
type keywordFile struct {
	Keywords  string `yaml:"keywords"`
	Keywords2 string `yaml:"keywords2"`
	User1     string `yaml:"user1"`
}

// defaultKeywords covers enough of SQL to make the tool useful without a
// keyword file.
const defaultKeywords = `
	begin case declare else elsif end exception exit for from function group
	having if insert into is loop merge not null order package procedure
	repeat select set start then update using values when where while`

const defaultKeywords2 = `
	bigint blob boolean char date decimal float int integer interval number
	numeric real smallint text time timestamp varchar varchar2`

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "lexis:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	data, err := os.ReadFile(opts.Args.File)
	if err != nil {
		return err
	}

	lexer := lexis.Lookup(opts.Lexer)
	if lexer == nil {
		return fmt.Errorf("unknown lexer %q (have %s)", opts.Lexer, strings.Join(lexis.Names(), ", "))
	}

	kw := keywordFile{Keywords: defaultKeywords, Keywords2: defaultKeywords2}
	if opts.Keywords != "" {
		raw, err := os.ReadFile(opts.Keywords)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(raw, &kw); err != nil {
			return fmt.Errorf("parsing %s: %w", opts.Keywords, err)
		}
	}
	keywords := []*wordlist.Set{
		wordlist.New(kw.Keywords),
		wordlist.New(kw.Keywords2),
		wordlist.New(kw.User1),
	}

	buf := styler.NewBuffer(string(data))
	for name, value := range opts.Props {
		buf.SetProperty(name, value)
	}

	lexer.Colourise(0, buf.Length(), 0, keywords, buf)
	lexer.Fold(0, buf.Length(), 0, buf)

	colour := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.Fold {
		printFold(buf)
	} else {
		printStyles(buf, colour)
	}

	if opts.Find != "" {
		s := lexis.NewSearchWithWordClass(buf.IsWordChar)
		if err := s.Compile(opts.Find, lexis.FindOptions{
			MatchCase: opts.MatchCase,
			WholeWord: opts.WholeWord,
			Regexp:    opts.Regexp,
		}); err != nil {
			return fmt.Errorf("pattern %q: %s", opts.Find, err)
		}
		for _, r := range s.MarkAll(buf, 0, buf.Length()) {
			line := buf.GetLine(r[0])
			fmt.Printf("%s:%d:%d: %s\n", opts.Args.File, line+1, r[0]-buf.LineStart(line)+1,
				buf.Text()[r[0]:r[1]])
		}
	}

	if opts.Debug {
		dump := struct {
			File   string
			Length int
			Lines  int
			Runs   int
			Levels []string
		}{File: opts.Args.File, Length: buf.Length(), Lines: buf.Lines()}
		styles := buf.Styles()
		for i := range styles {
			if i == 0 || styles[i] != styles[i-1] {
				dump.Runs++
			}
		}
		for line := 0; line < buf.Lines(); line++ {
			dump.Levels = append(dump.Levels, formatLevel(buf.LevelAt(line)))
		}
		pp.Fprintln(os.Stderr, dump)
	}
	return nil
}

// ansiPalette maps style byte -> SGR colour, cycling for high styles.
var ansiPalette = []string{"39", "31", "32", "33", "34", "35", "36", "91", "92", "93", "94", "95", "96"}

func printStyles(buf *styler.Buffer, colour bool) {
	text := buf.Text()
	styles := buf.Styles()
	if !colour {
		// One line of text, one line of style digits underneath.
		for line := 0; line < buf.Lines(); line++ {
			start := buf.LineStart(line)
			end := buf.LineStart(line + 1)
			chunk := strings.TrimRight(text[start:end], "\r\n")
			fmt.Println(chunk)
			var b strings.Builder
			for i := 0; i < len(chunk); i++ {
				b.WriteByte("0123456789abcdefghijklmnopqrstuv"[styles[start+i]&0x1F])
			}
			fmt.Println(b.String())
		}
		return
	}
	last := byte(0xFF)
	for i := 0; i < len(text); i++ {
		if styles[i] != last {
			last = styles[i]
			fmt.Printf("\x1b[%sm", ansiPalette[int(last)%len(ansiPalette)])
		}
		fmt.Print(string(text[i]))
	}
	fmt.Print("\x1b[0m")
}

func formatLevel(lev int) string {
	level := lev & styler.FoldLevelNumberMask
	flags := ""
	if lev&styler.FoldLevelHeaderFlag != 0 {
		flags += "H"
	}
	if lev&styler.FoldLevelWhiteFlag != 0 {
		flags += "W"
	}
	return fmt.Sprintf("%d%s", level-styler.FoldLevelBase, flags)
}

func printFold(buf *styler.Buffer) {
	text := buf.Text()
	for line := 0; line < buf.Lines(); line++ {
		start := buf.LineStart(line)
		end := buf.LineStart(line + 1)
		fmt.Printf("%4d %-4s %s\n", line+1, formatLevel(buf.LevelAt(line)),
			strings.TrimRight(text[start:end], "\r\n"))
	}
}
