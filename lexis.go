// Package lexis provides incremental syntax colouring and structural
// folding for an editor component, plus the regular-expression engine its
// search dialog runs on.
//
// The lexers (package lexers) drive a host-supplied Styler: Colourise
// assigns a style to every character and Fold derives a fold level per
// line from those styles. Both passes are restartable from any
// host-indicated safe point, which is what makes incremental re-lexing of
// large documents cheap.
//
// The search engine (packages meta and nfa) compiles patterns to a compact
// NFA byte program executed by a backtracking matcher over a
// CharacterIndexer, with an Aho-Corasick bypass for plain-text patterns.
//
// Basic usage:
//
//	buf := styler.NewBuffer("SELECT 1 FROM t;")
//	lexis.Lookup("sql").Colourise(0, buf.Length(), 0, keywords, buf)
//
//	s := lexis.NewSearch()
//	if err := s.Compile(`\(fo.*\)-\1`, lexis.FindOptions{MatchCase: true, Regexp: true}); err == nil {
//	    s.Find(buf, 0, buf.Length())
//	}
package lexis

import (
	"sort"
	"sync"

	"github.com/coregx/lexis/meta"
	"github.com/coregx/lexis/nfa"
	"github.com/coregx/lexis/styler"
	"github.com/coregx/lexis/wordlist"
)

// Lexer is one registered language: a colourise pass writing styles and a
// fold pass writing per-line levels. Fold reads the styles Colourise
// produced, so for a given range Colourise runs first.
type Lexer interface {
	// Name returns the registry key, e.g. "sql".
	Name() string

	// Colourise assigns a style to every position in [startPos,
	// startPos+length), resuming from initStyle.
	Colourise(startPos, length int, initStyle byte, keywords []*wordlist.Set, sty styler.Styler)

	// Fold assigns a fold level to every line touching [startPos,
	// startPos+length).
	Fold(startPos, length int, initStyle byte, sty styler.Styler)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Lexer)
)

// Register makes a lexer available to Lookup. Later registrations under
// the same name win.
func Register(l Lexer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[l.Name()] = l
}

// Lookup returns the lexer registered under name, or nil.
func Lookup(name string) Lexer {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Names returns the registered lexer names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindOptions mirror the checkboxes of an editor search dialog. With
// Regexp off the pattern is plain text, metacharacters included; Posix
// only applies in regex mode.
type FindOptions struct {
	MatchCase bool
	WholeWord bool
	Regexp    bool
	Posix     bool
}

// Search is the document search facade: one compiled pattern and its
// latest match. Not safe for concurrent use; each caller owns its own.
type Search struct {
	engine *meta.Engine
}

// NewSearch creates a search with the default word class.
func NewSearch() *Search {
	return &Search{engine: meta.NewEngine(nil)}
}

// NewSearchWithWordClass creates a search using the host word-class
// oracle for word boundaries in regex mode. Plain-text whole-word searches
// use the indexer's own word oracles.
func NewSearchWithWordClass(isWordChar func(byte) bool) *Search {
	return &Search{engine: meta.NewEngine(isWordChar)}
}

// Compile prepares pattern for Find. Recompiling an identical pattern with
// identical options is a no-op.
func (s *Search) Compile(pattern string, opts FindOptions) error {
	return s.engine.Compile(pattern, meta.Flags{
		MatchCase: opts.MatchCase,
		WholeWord: opts.WholeWord,
		Regexp:    opts.Regexp,
		Posix:     opts.Posix,
	})
}

// Find searches [start, end) of ci and returns the match bounds, or ok
// false when there is no match or no compiled pattern.
func (s *Search) Find(ci nfa.CharacterIndexer, start, end int) (int, int, bool) {
	if s.engine.Execute(ci, start, end) == 0 {
		return 0, 0, false
	}
	b, e := s.engine.Group(0)
	return b, e, true
}

// Group returns the bounds of capture n from the last successful Find.
func (s *Search) Group(n int) (start, end int) { return s.engine.Group(n) }

// MarkAll returns all non-overlapping match ranges in [start, end).
func (s *Search) MarkAll(ci nfa.CharacterIndexer, start, end int) [][2]int {
	return s.engine.MarkAll(ci, start, end)
}

// Substitute expands a replacement template (\0..\9 group references plus
// the usual control escapes) against the last successful Find.
func (s *Search) Substitute(template string) string {
	return s.engine.Substitute(template)
}
