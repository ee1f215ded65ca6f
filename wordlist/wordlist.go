// Package wordlist provides the keyword membership sets the lexers resolve
// identifiers against. Lookups are case-folded; lists are built once from
// space-separated definition strings the way hosts hand keyword sets over.
package wordlist

import "strings"

// Set is a keyword list. The zero value is an empty list.
type Set struct {
	words map[string]struct{}
	all   []string
}

// New builds a set from whitespace-separated keywords, folded to lower
// case.
func New(definition string) *Set {
	s := &Set{words: make(map[string]struct{})}
	for _, w := range strings.Fields(definition) {
		w = strings.ToLower(w)
		if _, ok := s.words[w]; !ok {
			s.words[w] = struct{}{}
			s.all = append(s.all, w)
		}
	}
	return s
}

// InList reports whether word (already lowered by the caller) is a member.
func (s *Set) InList(word string) bool {
	if s == nil || s.words == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// InListAbbreviated reports whether word matches a list entry of the form
// "prefix<marker>suffix": the prefix is mandatory and the suffix may be
// truncated at any point. Entries without the marker match exactly.
func (s *Set) InListAbbreviated(word string, marker byte) bool {
	if s == nil {
		return false
	}
	for _, entry := range s.all {
		cut := strings.IndexByte(entry, marker)
		if cut < 0 {
			if entry == word {
				return true
			}
			continue
		}
		prefix := entry[:cut]
		suffix := entry[cut+1:]
		if len(word) < len(prefix) || len(word) > len(prefix)+len(suffix) {
			continue
		}
		if word[:len(prefix)] == prefix && strings.HasPrefix(suffix, word[len(prefix):]) {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.all)
}
