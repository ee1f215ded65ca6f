// Package meta orchestrates the search strategies behind the editor search
// dialog.
//
// An Engine owns one compiled pattern at a time. Compile selects a
// strategy from the dialog flags: with regex mode off the pattern is plain
// bytes and runs on an Aho-Corasick literal automaton (literal.go), with
// regex mode on it compiles to the backtracking NFA program in package
// nfa. A fingerprint cache makes recompiling the same pattern with the
// same flags a no-op, which matters because hosts re-issue Compile on
// every find-next.
//
// An Engine instance is owned by a single caller and is not safe for
// concurrent use.
package meta

import (
	"github.com/coregx/lexis/nfa"
)

// Flags select how a pattern is compiled and matched.
type Flags struct {
	// MatchCase selects case-sensitive matching.
	MatchCase bool

	// WholeWord restricts matches to whole words as reported by the
	// indexer word oracles.
	WholeWord bool

	// Regexp interprets the pattern as a regular expression. When false
	// the pattern is literal text, metacharacters included.
	Regexp bool

	// Posix selects '(' ')' grouping instead of \( \). Only meaningful
	// with Regexp set.
	Posix bool
}

// Engine compiles and executes search patterns over a CharacterIndexer.
type Engine struct {
	isWordChar func(byte) bool

	// Last successful compile, so an identical request is a no-op.
	cachedPattern string
	cachedFlags   Flags
	ready         bool

	prog    *nfa.Program
	matcher *nfa.Matcher
	literal *literalSearcher

	bopat [nfa.MaxTag]int
	eopat [nfa.MaxTag]int
	text  [nfa.MaxTag]string
}

// NewEngine creates an empty engine. The word-class oracle backs the regex
// strategy (\w, \W, case folding of literals, \< \> and whole-word
// wrapping); the literal strategy's whole-word check asks the indexer's
// IsWordStartAt/IsWordEndAt instead. nil selects nfa.IsWordCharDefault.
func NewEngine(isWordChar func(byte) bool) *Engine {
	if isWordChar == nil {
		isWordChar = nfa.IsWordCharDefault
	}
	return &Engine{isWordChar: isWordChar}
}

// Compile prepares the engine for pattern under flags. A call whose
// pattern and flags match the previous successful call returns nil without
// recompiling. On error the engine refuses Execute until a successful
// recompile.
func (e *Engine) Compile(pattern string, flags Flags) error {
	if e.ready && pattern == e.cachedPattern && flags == e.cachedFlags {
		return nil
	}
	e.ready = false
	e.prog = nil
	e.matcher = nil
	e.literal = nil

	if !flags.Regexp {
		lit, err := newLiteralSearcher(pattern, flags)
		if err != nil {
			return err
		}
		e.literal = lit
	} else {
		compiled := pattern
		if flags.WholeWord {
			compiled = `\<` + pattern + `\>`
		}
		c := nfa.NewCompiler(nfa.CompilerConfig{
			CaseSensitive: flags.MatchCase,
			Posix:         flags.Posix,
			IsWordChar:    e.isWordChar,
		})
		prog, err := c.Compile(compiled)
		if err != nil {
			return err
		}
		e.prog = prog
		e.matcher = nfa.NewMatcher(prog, e.isWordChar)
	}

	e.cachedPattern = pattern
	e.cachedFlags = flags
	e.ready = true
	return nil
}

// Ready reports whether the engine holds a successfully compiled pattern.
func (e *Engine) Ready() bool { return e.ready }

// Execute searches [lp, endp) of ci. It returns 1 on a match with group 0
// bounds in Group(0) and tagged sub-matches in Group(1..9), 0 otherwise.
// With no valid compiled pattern it returns 0.
func (e *Engine) Execute(ci nfa.CharacterIndexer, lp, endp int) int {
	for i := range e.bopat {
		e.bopat[i] = nfa.NotFound
		e.eopat[i] = nfa.NotFound
		e.text[i] = ""
	}
	if !e.ready {
		return 0
	}

	if e.literal != nil {
		start, end, ok := e.literal.find(ci, lp, endp)
		if !ok {
			return 0
		}
		e.bopat[0] = start
		e.eopat[0] = end
		b := make([]byte, 0, end-start)
		for pos := start; pos < end; pos++ {
			b = append(b, ci.CharAt(pos))
		}
		e.text[0] = string(b)
		return 1
	}

	if e.matcher.Execute(ci, lp, endp) == 0 {
		return 0
	}
	e.matcher.GrabMatches(ci)
	for n := 0; n < nfa.MaxTag; n++ {
		e.bopat[n], e.eopat[n] = e.matcher.Group(n)
		e.text[n] = e.matcher.Match(n)
	}
	return 1
}

// Group returns the bounds recorded for capture n by the last Execute.
func (e *Engine) Group(n int) (start, end int) {
	if n < 0 || n >= nfa.MaxTag {
		return nfa.NotFound, nfa.NotFound
	}
	return e.bopat[n], e.eopat[n]
}

// MarkAll returns every non-overlapping match range in [lp, endp), for
// mark-occurrences style highlighting.
func (e *Engine) MarkAll(ci nfa.CharacterIndexer, lp, endp int) [][2]int {
	var ranges [][2]int
	for lp < endp {
		if e.Execute(ci, lp, endp) == 0 {
			break
		}
		start, end := e.Group(0)
		ranges = append(ranges, [2]int{start, end})
		if end <= lp {
			end = lp + 1
		}
		lp = end
	}
	return ranges
}

// Substitute expands a replacement template against the captures of the
// last successful Execute. \0..\9 insert group texts; \a, \b, \f, \n, \r,
// \t, \v insert the usual control bytes; any other escaped byte, \\
// included, is literal.
func (e *Engine) Substitute(template string) string {
	out := make([]byte, 0, len(template))
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '\\' || i+1 >= len(template) {
			out = append(out, ch)
			continue
		}
		i++
		switch c := template[i]; {
		case c >= '0' && c <= '9':
			out = append(out, e.text[c-'0']...)
		case c == 'n':
			out = append(out, '\n')
		case c == 'r':
			out = append(out, '\r')
		case c == 't':
			out = append(out, '\t')
		case c == 'a':
			out = append(out, 7)
		case c == 'b':
			out = append(out, 8)
		case c == 'f':
			out = append(out, 12)
		case c == 'v':
			out = append(out, 11)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
