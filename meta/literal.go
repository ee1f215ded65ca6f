package meta

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/lexis/nfa"
)

// literalSearcher is the engine behind plain-text search: with the
// dialog's regex mode off the pattern is raw bytes, metacharacters
// included, and runs on an Aho-Corasick automaton over the range. Case
// folding is applied to both needle and haystack; whole-word hits are
// filtered through the indexer word oracles.
type literalSearcher struct {
	auto      *ahocorasick.Automaton
	foldCase  bool
	wholeWord bool
}

func newLiteralSearcher(pattern string, flags Flags) (*literalSearcher, error) {
	if len(pattern) == 0 {
		return nil, nfa.ErrEmptyPattern
	}
	needle := []byte(pattern)
	fold := !flags.MatchCase
	if fold {
		needle = foldBytes(needle)
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(needle)
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &literalSearcher{auto: auto, foldCase: fold, wholeWord: flags.WholeWord}, nil
}

func foldBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		out[i] = ch
	}
	return out
}

// find gathers the range into a haystack, folds it when matching
// case-insensitively, and walks automaton hits until one passes the
// whole-word check.
func (ls *literalSearcher) find(ci nfa.CharacterIndexer, lp, endp int) (int, int, bool) {
	if endp <= lp {
		return 0, 0, false
	}
	haystack := make([]byte, endp-lp)
	for i := range haystack {
		ch := ci.CharAt(lp + i)
		if ls.foldCase && ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		haystack[i] = ch
	}
	at := 0
	for at < len(haystack) {
		m := ls.auto.Find(haystack, at)
		if m == nil {
			return 0, 0, false
		}
		start, end := lp+m.Start, lp+m.End
		if !ls.wholeWord || (ci.IsWordStartAt(start) && ci.IsWordEndAt(end)) {
			return start, end, true
		}
		at = m.Start + 1
	}
	return 0, 0, false
}
