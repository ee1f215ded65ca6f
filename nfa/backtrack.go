package nfa

// Matcher executes a compiled Program with recursive backtracking.
//
// A Matcher is owned by a single caller; per-search state (line start,
// capture table, failure flag) is reset on every Execute call. Backtracking
// can be exponential on pathological patterns; callers bound the work by
// choosing the search range.
type Matcher struct {
	prog       *Program
	isWordChar func(byte) bool

	bol     int
	failed  bool
	bopat   [MaxTag]int
	eopat   [MaxTag]int
	matched [MaxTag]string
}

// NewMatcher creates a matcher for prog. The word-class oracle backs the
// \< \> boundary opcodes; nil selects IsWordCharDefault.
func NewMatcher(prog *Program, isWordChar func(byte) bool) *Matcher {
	if isWordChar == nil {
		isWordChar = IsWordCharDefault
	}
	return &Matcher{prog: prog, isWordChar: isWordChar}
}

// Execute searches [lp, endp) of ci for the compiled pattern. It returns 1
// on a match, with group 0 bounds available from Group(0) and tagged
// sub-matches from Group(1..9), and 0 otherwise.
func (m *Matcher) Execute(ci CharacterIndexer, lp, endp int) int {
	m.bol = lp
	m.failed = false
	for i := range m.bopat {
		m.bopat[i] = NotFound
		m.eopat[i] = NotFound
		m.matched[i] = ""
	}
	if m.prog == nil || len(m.prog.code) == 0 {
		return 0
	}

	code := m.prog.code
	ep := NotFound
	switch opcode(code[0]) {
	case opEnd:
		// Munged program; fail always.
		return 0

	case opBol:
		// Anchored: a single attempt at the range start.
		offset := 1
		ep = m.pmatch(ci, lp, endp, 0, &offset)

	case opEol:
		if len(code) > 1 && opcode(code[1]) == opEnd {
			// Just searching for the end: the only match is the empty
			// string there.
			lp = endp
			ep = endp
			break
		}
		fallthrough

	default:
		if opcode(code[0]) == opChr {
			// Ordinary first character: locate it fast.
			c := code[1]
			for lp < endp && ci.CharAt(lp) != c {
				lp++
			}
			if lp >= endp {
				return 0
			}
		}
		for lp < endp {
			offset := 1
			ep = m.pmatch(ci, lp, endp, 0, &offset)
			if ep != NotFound {
				break
			}
			if offset < 1 {
				offset = 1
			}
			lp += offset
		}
	}
	if ep == NotFound {
		return 0
	}
	m.bopat[0] = lp
	m.eopat[0] = ep
	return 1
}

// Group returns the bounds of capture n after a successful Execute, or
// (NotFound, NotFound) when the group did not participate.
func (m *Matcher) Group(n int) (start, end int) {
	if n < 0 || n >= MaxTag {
		return NotFound, NotFound
	}
	return m.bopat[n], m.eopat[n]
}

// Failed reports whether the last Execute hit a structurally invalid
// program. Such a search reports "no match"; the flag is for diagnostics.
func (m *Matcher) Failed() bool { return m.failed }

// GrabMatches materialises the capture texts from ci so they survive later
// buffer edits. Call it after a successful Execute and before the document
// changes.
func (m *Matcher) GrabMatches(ci CharacterIndexer) {
	for n := 0; n < MaxTag; n++ {
		if m.bopat[n] == NotFound || m.eopat[n] == NotFound {
			continue
		}
		b := make([]byte, 0, m.eopat[n]-m.bopat[n])
		for pos := m.bopat[n]; pos < m.eopat[n]; pos++ {
			b = append(b, ci.CharAt(pos))
		}
		m.matched[n] = string(b)
	}
}

// Match returns the text grabbed for capture n, empty until GrabMatches.
func (m *Matcher) Match(n int) string {
	if n < 0 || n >= MaxTag {
		return ""
	}
	return m.matched[n]
}

// pmatch interprets the program from pc at position lp. It returns the
// match end or NotFound. On failure of an indexer word opcode it writes a
// movement hint into *offset so the outer scan can skip a whole character.
func (m *Matcher) pmatch(ci CharacterIndexer, lp, endp, pc int, offset *int) int {
	code := m.prog.code
	for {
		op := opcode(code[pc])
		pc++
		switch op {
		case opEnd:
			return lp

		case opChr:
			if lp >= endp || ci.CharAt(lp) != code[pc] {
				return NotFound
			}
			lp++
			pc++

		case opAny:
			if lp >= endp {
				return NotFound
			}
			lp++

		case opCcl:
			if lp >= endp || !inSet(code[pc:pc+bitBlock], ci.CharAt(lp)) {
				return NotFound
			}
			lp++
			pc += bitBlock

		case opBol:
			if lp != m.bol {
				return NotFound
			}

		case opEol:
			if lp < endp {
				return NotFound
			}

		case opBot:
			m.bopat[code[pc]] = ci.MovePositionOutsideChar(lp, -1)
			pc++

		case opEot:
			m.eopat[code[pc]] = ci.MovePositionOutsideChar(lp, -1)
			pc++

		case opBow:
			if lp != m.bol && m.isWordChar(ci.CharAt(lp-1)) {
				return NotFound
			}
			if lp >= endp || !m.isWordChar(ci.CharAt(lp)) {
				return NotFound
			}

		case opEow:
			if lp == m.bol || !m.isWordChar(ci.CharAt(lp-1)) {
				return NotFound
			}
			if lp < endp && m.isWordChar(ci.CharAt(lp)) {
				return NotFound
			}

		case opRef:
			n := int(code[pc])
			pc++
			bp, ep := m.bopat[n], m.eopat[n]
			if bp == NotFound || ep == NotFound {
				return NotFound
			}
			for bp < ep {
				if lp >= endp || ci.CharAt(bp) != ci.CharAt(lp) {
					return NotFound
				}
				bp++
				lp++
			}

		case opWordStart:
			if !ci.IsWordStartAt(lp) {
				if hint := ci.NextPosition(lp, 1) - lp; hint > 1 {
					*offset = hint
				}
				return NotFound
			}

		case opWordEnd:
			if !ci.IsWordEndAt(lp) {
				if hint := ci.NextPosition(lp, 1) - lp; hint > 1 {
					*offset = hint
				}
				return NotFound
			}

		case opToWordEnd:
			e := ci.ExtendWordSelect(lp, 1)
			if e <= lp {
				return NotFound
			}
			lp = e

		case opToWordEndOpt:
			if e := ci.ExtendWordSelect(lp, 1); e > lp {
				lp = e
			}

		case opClo, opCloLazy, opCloQuest:
			are := lp
			switch opcode(code[pc]) {
			case opAny:
				if op == opCloQuest {
					if lp < endp {
						lp++
					}
				} else {
					lp = endp
				}
				pc += anySkip
			case opChr:
				c := code[pc+1]
				if op == opCloQuest {
					if lp < endp && ci.CharAt(lp) == c {
						lp++
					}
				} else {
					for lp < endp && ci.CharAt(lp) == c {
						lp++
					}
				}
				pc += chrSkip
			case opCcl:
				set := code[pc+1 : pc+cclSkip]
				if op == opCloQuest {
					if lp < endp && inSet(set, ci.CharAt(lp)) {
						lp++
					}
				} else {
					for lp < endp && inSet(set, ci.CharAt(lp)) {
						lp++
					}
				}
				pc += cclSkip
			default:
				m.failed = true
				return NotFound
			}
			pc++ // the atom's opEnd terminator

			if op == opCloLazy {
				// Shortest first.
				for llp := are; llp <= lp; llp++ {
					if e := m.pmatch(ci, llp, endp, pc, offset); e != NotFound {
						return e
					}
				}
				return NotFound
			}
			// Longest first.
			for llp := lp; llp >= are; llp-- {
				if e := m.pmatch(ci, llp, endp, pc, offset); e != NotFound {
					if opcode(code[pc]) == opEot {
						// Re-issue at the winning position so the
						// enclosing tag closes with the longest span.
						m.pmatch(ci, llp, endp, pc, offset)
					}
					return e
				}
			}
			return NotFound

		default:
			m.failed = true
			return NotFound
		}
	}
}
