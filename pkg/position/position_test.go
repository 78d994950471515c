package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/position"
)

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    position.Span
		b    position.Span
		want bool
	}{
		{name: "disjoint", a: position.NewSpan(0, 5), b: position.NewSpan(5, 10), want: false},
		{name: "overlapping", a: position.NewSpan(0, 6), b: position.NewSpan(5, 10), want: true},
		{name: "contained", a: position.NewSpan(0, 10), b: position.NewSpan(2, 4), want: true},
		{name: "zero length inside", a: position.NewSpan(0, 10), b: position.NewSpan(5, 5), want: true},
		{name: "zero length at end", a: position.NewSpan(0, 10), b: position.NewSpan(10, 10), want: false},
		{name: "zero length at start", a: position.NewSpan(0, 10), b: position.NewSpan(0, 0), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestSpanIntersect(t *testing.T) {
	sub, ok := position.NewSpan(0, 10).Intersect(position.NewSpan(5, 15))
	require.True(t, ok)
	assert.Equal(t, position.NewSpan(5, 10), sub)

	_, ok = position.NewSpan(0, 5).Intersect(position.NewSpan(5, 10))
	assert.False(t, ok)
}

func TestPlaceConversions(t *testing.T) {
	text := "hello\nworld\nfoo"

	tests := []struct {
		name   string
		offset int
		want   position.Place
	}{
		{name: "start of text", offset: 0, want: position.Place{Line: 0, Character: 0}},
		{name: "mid first line", offset: 3, want: position.Place{Line: 0, Character: 3}},
		{name: "start of second line", offset: 6, want: position.Place{Line: 1, Character: 0}},
		{name: "mid last line", offset: 14, want: position.Place{Line: 2, Character: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := position.PlaceAt(tt.offset, text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.offset, position.OffsetAt(got, text))
		})
	}
}

func TestPlaceAtMultibyte(t *testing.T) {
	// é is two bytes but one grapheme cluster
	text := "café x"
	place := position.PlaceAt(6, text)
	assert.Equal(t, position.Place{Line: 0, Character: 5}, place)
	assert.Equal(t, 6, position.OffsetAt(place, text))
}

func TestRangeRoundTrip(t *testing.T) {
	text := "a\nbb\nccc\n"
	span := position.NewSpan(2, 7)
	rng := position.RangeOf(span, text)
	assert.Equal(t, span, position.SpanOf(rng, text))
}

func TestLeadingWhitespace(t *testing.T) {
	assert.Equal(t, "  ", position.LeadingWhitespace("  <div>"))
	assert.Equal(t, "\t ", position.LeadingWhitespace("\t x"))
	assert.Equal(t, "", position.LeadingWhitespace("x"))
	assert.Equal(t, "   ", position.LeadingWhitespace("   "))
}

func TestLineStart(t *testing.T) {
	text := "ab\ncd\nef"
	assert.Equal(t, 0, position.LineStart(1, text))
	assert.Equal(t, 3, position.LineStart(4, text))
	assert.Equal(t, 6, position.LineStart(8, text))
}
