package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Span is a half-open byte range [Start, End) in some text buffer.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsZeroLen() bool {
	return s.Start == s.End
}

// Contains reports whether offset falls within [Start, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsSpan reports whether other lies entirely within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one offset.
// Zero-length spans overlap a span that covers their position.
func (s Span) Overlaps(other Span) bool {
	if s.IsZeroLen() {
		return other.Contains(s.Start) || (other.IsZeroLen() && other.Start == s.Start)
	}
	if other.IsZeroLen() {
		return s.Contains(other.Start)
	}
	return other.Start < s.End && other.End > s.Start
}

// Intersect returns the common sub-span. A zero-length query inside s
// intersects as itself.
func (s Span) Intersect(other Span) (Span, bool) {
	if !s.Overlaps(other) {
		return Span{}, false
	}
	return Span{Start: max(s.Start, other.Start), End: min(s.End, other.End)}, true
}

// Shift returns the span moved by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Place is a zero-based line and character position. Characters count
// grapheme clusters, not bytes.
type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// PlaceAt converts a byte offset into a Place against text.
func PlaceAt(offset int, text string) Place {
	if offset > len(text) {
		offset = len(text)
	}
	line := strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return Place{Line: line, Character: graphemeCount(text[lineStart:offset])}
}

// OffsetAt converts a Place back into a byte offset against text. Places
// beyond the end of a line clamp to the line end.
func OffsetAt(place Place, text string) int {
	offset := 0
	for i := 0; i < place.Line; i++ {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			return len(text)
		}
		offset += idx + 1
	}
	lineEnd := strings.IndexByte(text[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - offset
	}
	line := text[offset : offset+lineEnd]
	return offset + graphemeOffset(line, place.Character)
}

// RangeOf converts a byte span into a line/character range against text.
func RangeOf(span Span, text string) Range {
	return Range{
		Start: PlaceAt(span.Start, text),
		End:   PlaceAt(span.End, text),
	}
}

// SpanOf converts a line/character range back into a byte span against text.
func SpanOf(rng Range, text string) Span {
	return Span{
		Start: OffsetAt(rng.Start, text),
		End:   OffsetAt(rng.End, text),
	}
}

// LineStart returns the byte offset of the first character of the line
// containing offset.
func LineStart(offset int, text string) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// LeadingWhitespace returns the run of spaces and tabs at the start of line.
func LeadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

func graphemeCount(s string) int {
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		// scanner only fails on malformed state, fall back to bytes
		return len(s)
	}
	return n
}

// graphemeOffset returns the byte offset of the nth grapheme cluster in line.
func graphemeOffset(line string, n int) int {
	if n <= 0 {
		return 0
	}
	remaining := []byte(line)
	offset := 0
	for i := 0; i < n; i++ {
		adv, _, err := textseg.ScanGraphemeClusters(remaining, true)
		if err != nil || adv == 0 {
			return len(line)
		}
		offset += adv
		remaining = remaining[adv:]
	}
	return offset
}
