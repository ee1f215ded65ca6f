// Package nfa implements the compact NFA byte-program engine behind the
// editor search facility.
//
// A pattern is compiled by Compiler into a flat byte program (Program) of at
// most MaxProgram bytes. Each instruction is a one-byte opcode optionally
// followed by operands; character classes carry a 32-byte bitset inline.
// The program is executed by Matcher, a recursive backtracking interpreter
// that reads the document through a CharacterIndexer, so the engine never
// touches the text buffer directly and can run over any host representation.
//
// Matching is line-local and byte-oriented. The engine performs no
// UTF-8 decoding of its own; multi-byte awareness is delegated to the
// CharacterIndexer boundary oracles (MovePositionOutsideChar, NextPosition).
package nfa

// Program and capture limits.
const (
	// MaxProgram is the maximum length in bytes of a compiled program.
	MaxProgram = 2048

	// MaxTag is the number of capture slots. Slot 0 is the whole match;
	// slots 1..9 are addressable from patterns via \1..\9.
	MaxTag = 10

	// NotFound marks an unset position (capture bound or match result).
	NotFound = -1
)

// opcode is a single program instruction. Operand layout is noted per value.
type opcode byte

const (
	opEnd        opcode = iota // accept / sub-program terminator
	opChr                      // +1 operand byte: consume that literal
	opAny                      // consume any one character
	opCcl                      // +32 operand bytes: consume one char in bitset
	opBol                      // zero-width: at beginning of line
	opEol                      // zero-width: at end of line
	opBot                      // +1 operand byte n: open capture n
	opEot                      // +1 operand byte n: close capture n
	opBow                      // zero-width: word-start transition
	opEow                      // zero-width: word-end transition
	opRef                      // +1 operand byte n: replay capture n
	opClo                      // greedy closure over the following atom
	opCloLazy                  // lazy closure over the following atom
	opCloQuest                 // 0-or-1 closure over the following atom
	opWordStart                // zero-width: indexer word start
	opWordEnd                  // zero-width: indexer word end
	opToWordEnd                // consume to the end of the current word
	opToWordEndOpt             // like opToWordEnd but accepts zero length
)

// Instruction widths, including the opcode byte.
const (
	chrSkip = 2
	anySkip = 1
	cclSkip = 1 + bitBlock
)

// Bitset geometry: one bit per byte value.
const (
	maxChar  = 256
	charBit  = 8
	bitBlock = maxChar / charBit
)

// charClass is the 32-byte membership bitset stored inline after opCcl.
type charClass [bitBlock]byte

func (c *charClass) set(ch byte) {
	c[ch>>3] |= 1 << (ch & 7)
}

// setWithCase sets ch and, when folding, its upper/lower case mirror.
func (c *charClass) setWithCase(ch byte, fold bool) {
	c.set(ch)
	if !fold {
		return
	}
	switch {
	case ch >= 'a' && ch <= 'z':
		c.set(ch - 'a' + 'A')
	case ch >= 'A' && ch <= 'Z':
		c.set(ch - 'A' + 'a')
	}
}

// inSet reports whether ch is a member of the 32-byte bitset at set.
func inSet(set []byte, ch byte) bool {
	return set[ch>>3]&(1<<(ch&7)) != 0
}

// Program is a compiled pattern: a flat instruction sequence ending in opEnd.
// A Program is immutable once returned by Compiler.Compile and may be shared
// by any number of Matchers.
type Program struct {
	code []byte
}

// Len returns the program length in bytes.
func (p *Program) Len() int { return len(p.code) }

// CharacterIndexer is the host contract the matcher reads the document
// through: random access plus the word-boundary oracles used by the word
// match opcodes. Positions are byte offsets; the indexer owns any multi-byte
// character knowledge.
type CharacterIndexer interface {
	// CharAt returns the byte at pos, or 0 when pos is out of range.
	CharAt(pos int) byte

	// MovePositionOutsideChar snaps pos to a character boundary, moving in
	// direction dir (+1 forward, -1 backward) when pos splits a character.
	MovePositionOutsideChar(pos, dir int) int

	// NextPosition returns the position of the adjacent character in
	// direction dir, skipping over multi-byte sequences.
	NextPosition(pos, dir int) int

	// IsWordStartAt reports whether a word begins at pos.
	IsWordStartAt(pos int) bool

	// IsWordEndAt reports whether a word ends at pos.
	IsWordEndAt(pos int) bool

	// ExtendWordSelect returns the end of the word run containing pos when
	// moving in direction dir.
	ExtendWordSelect(pos, dir int) int
}

// IsWordCharDefault is the word-class oracle used when the host does not
// supply one: ASCII letters, digits and underscore.
func IsWordCharDefault(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}
