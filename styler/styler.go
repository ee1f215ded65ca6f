// Package styler defines the host contract the lexers drive: a text
// accessor that also stores per-position styles and per-line fold levels.
// The hosting editor supplies its own implementation; Buffer is a complete
// in-memory one used by tests and tooling.
package styler

// Fold-level encoding. The low bits carry a base-relative nesting level;
// the flag bits are orthogonal. The SQL folder additionally stashes the
// level the NEXT line starts at in the high 16 bits so an incremental
// refold can resume from any line; the properties folder stores only the
// level and flags.
const (
	FoldLevelBase       = 0x400
	FoldLevelWhiteFlag  = 0x1000
	FoldLevelHeaderFlag = 0x2000
	FoldLevelNumberMask = 0x0FFF
)

// Styler is the accessor lexers read text through and write styles and
// fold levels back to. Positions are byte offsets; lines are zero-based.
type Styler interface {
	// Length returns the document length in bytes.
	Length() int

	// CharAt returns the byte at pos, or 0 when pos is out of range.
	CharAt(pos int) byte

	// StyleAt returns the style previously assigned to pos.
	StyleAt(pos int) byte

	// StartAt declares the position styling will begin from.
	StartAt(pos int)

	// StartSegment opens a new token at pos.
	StartSegment(pos int)

	// ColourTo assigns style to every position from the current segment
	// start through endPos inclusive, and opens the next segment.
	ColourTo(endPos int, style byte)

	// GetLine returns the line containing pos.
	GetLine(pos int) int

	// LineStart returns the position the given line begins at; one past
	// the end of text for lines beyond the last.
	LineStart(line int) int

	// LevelAt returns the fold level stored for line.
	LevelAt(line int) int

	// SetLevel stores the fold level for line.
	SetLevel(line, level int)

	// GetPropertyInt returns a host configuration value, or def when the
	// property is unset.
	GetPropertyInt(name string, def int) int

	// Match reports whether the text at pos equals s.
	Match(pos int, s string) bool
}
