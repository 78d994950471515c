// Package mapping implements the capability-flagged source map between a
// composite document and one of its generated virtual documents, and the
// projection primitives that translate ranges across it.
package mapping

import (
	"sort"
	"strings"

	"github.com/walteh/embedls/pkg/position"
)

// Capability flags which categories of request are valid to project through
// a mapping entry.
type Capability uint32

const (
	CapFormatting Capability = 1 << iota
	CapCompletion
	CapDiagnostics
	CapHover
	CapSemanticTokens
	CapReferences
)

// EnableAllFeatures is the default capability set for verbatim content.
func EnableAllFeatures() Capability {
	return CapFormatting | CapCompletion | CapDiagnostics | CapHover | CapSemanticTokens | CapReferences
}

func (c Capability) Has(required Capability) bool {
	return c&required == required
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		cap  Capability
		name string
	}{
		{CapFormatting, "formatting"},
		{CapCompletion, "completion"},
		{CapDiagnostics, "diagnostics"},
		{CapHover, "hover"},
		{CapSemanticTokens, "semantic-tokens"},
		{CapReferences, "references"},
	} {
		if c.Has(f.cap) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Entry relates one contiguous source span to one contiguous generated span.
// The two spans are always the same length.
type Entry struct {
	Source       position.Span
	Generated    position.Span
	Capabilities Capability
}

// SourceMap is the ordered collection of entries relating one composite
// document version to one virtual document generation. It is immutable once
// built and never persisted.
type SourceMap struct {
	entries []Entry
}

// NewSourceMap builds a map from entries, ordering them by source start.
func NewSourceMap(entries []Entry) *SourceMap {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source.Start < sorted[j].Source.Start
	})
	return &SourceMap{entries: sorted}
}

func (m *SourceMap) Entries() []Entry {
	return m.entries
}

// ToGeneratedRanges projects a composite-document span into the generated
// document. It returns the generated sub-span for every entry that
// intersects the query and carries the required capability. No covering
// entry means the operation does not apply there; the result is empty,
// never an error.
func (m *SourceMap) ToGeneratedRanges(src position.Span, required Capability) []position.Span {
	var out []position.Span
	for _, e := range m.entries {
		if !e.Capabilities.Has(required) {
			continue
		}
		if !m.matches(e.Source, src) {
			continue
		}
		if src.IsZeroLen() {
			out = append(out, position.NewSpan(
				e.Generated.Start+(src.Start-e.Source.Start),
				e.Generated.Start+(src.Start-e.Source.Start),
			))
			continue
		}
		sub, ok := e.Source.Intersect(src)
		if !ok {
			continue
		}
		out = append(out, sub.Shift(e.Generated.Start-e.Source.Start))
	}
	return out
}

// ToSourceRanges is the mirror of ToGeneratedRanges: it projects a
// generated-document span back into the composite document.
func (m *SourceMap) ToSourceRanges(gen position.Span, required Capability) []position.Span {
	var out []position.Span
	for _, e := range m.entries {
		if !e.Capabilities.Has(required) {
			continue
		}
		if !m.matchesGenerated(e.Generated, gen) {
			continue
		}
		if gen.IsZeroLen() {
			out = append(out, position.NewSpan(
				e.Source.Start+(gen.Start-e.Generated.Start),
				e.Source.Start+(gen.Start-e.Generated.Start),
			))
			continue
		}
		sub, ok := e.Generated.Intersect(gen)
		if !ok {
			continue
		}
		out = append(out, sub.Shift(e.Source.Start-e.Generated.Start))
	}
	return out
}

// matches implements the zero-width tie-break policy on the source side: a
// zero-length query intersects an entry when it falls within [start, end),
// and additionally matches an entry ending exactly at the position when no
// entry starts there. A cursor on the boundary between two regions resolves
// to exactly one side, preferring the entry that begins at the position.
func (m *SourceMap) matches(entry, query position.Span) bool {
	if !query.IsZeroLen() {
		return entry.Overlaps(query)
	}
	if entry.Contains(query.Start) || (entry.IsZeroLen() && entry.Start == query.Start) {
		return true
	}
	if entry.End != query.Start {
		return false
	}
	for _, other := range m.entries {
		if other.Source.Start == query.Start && !other.Source.IsZeroLen() {
			return false
		}
	}
	return true
}

func (m *SourceMap) matchesGenerated(entry, query position.Span) bool {
	if !query.IsZeroLen() {
		return entry.Overlaps(query)
	}
	if entry.Contains(query.Start) || (entry.IsZeroLen() && entry.Start == query.Start) {
		return true
	}
	if entry.End != query.Start {
		return false
	}
	for _, other := range m.entries {
		if other.Generated.Start == query.Start && !other.Generated.IsZeroLen() {
			return false
		}
	}
	return true
}
