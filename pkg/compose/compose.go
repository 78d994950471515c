// Package compose rewrites backend results from virtual-document
// coordinates into composite-document coordinates. Every carried range is
// translated independently: a range with no projection is dropped, a range
// straddling several mapping entries is split into one result per
// destination span.
package compose

import (
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
)

// SpanFromRange converts a protocol line/character range into a byte span
// against text.
func SpanFromRange(r protocol.Range, text string) position.Span {
	return position.SpanOf(position.Range{
		Start: position.Place{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   position.Place{Line: int(r.End.Line), Character: int(r.End.Character)},
	}, text)
}

// RangeFromSpan converts a byte span into a protocol range against text.
func RangeFromSpan(span position.Span, text string) protocol.Range {
	rng := position.RangeOf(span, text)
	return protocol.Range{
		Start: protocol.Position{Line: uint32(rng.Start.Line), Character: uint32(rng.Start.Character)},
		End:   protocol.Position{Line: uint32(rng.End.Line), Character: uint32(rng.End.Character)},
	}
}

// TranslateEdits projects text edits back into the composite document. An
// edit whose range lacks the required capability on its covering entry is
// discarded entirely, never partially applied.
func TranslateEdits(m *mapping.SourceMap, generatedText, sourceText string, edits []protocol.TextEdit, required mapping.Capability) []protocol.TextEdit {
	var out []protocol.TextEdit
	for _, edit := range edits {
		span := SpanFromRange(edit.Range, generatedText)
		for _, src := range m.ToSourceRanges(span, required) {
			out = append(out, protocol.TextEdit{
				Range:   RangeFromSpan(src, sourceText),
				NewText: edit.NewText,
			})
		}
	}
	return out
}

// TranslateDiagnostics projects diagnostics back into the composite
// document. A diagnostic without a range (a compile-time error with no
// location) defaults to fallback, normally the start of the template
// section.
func TranslateDiagnostics(m *mapping.SourceMap, generatedText, sourceText string, diags []protocol.Diagnostic, fallback position.Span) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, d := range diags {
		if d.Range == nil {
			r := RangeFromSpan(fallback, sourceText)
			d.Range = &r
			out = append(out, d)
			continue
		}
		span := SpanFromRange(*d.Range, generatedText)
		for _, src := range m.ToSourceRanges(span, mapping.CapDiagnostics) {
			translated := d
			r := RangeFromSpan(src, sourceText)
			translated.Range = &r
			out = append(out, translated)
		}
	}
	return out
}

// TranslateHover projects a hover result. A hover whose range has no
// projection is dropped; a rangeless hover passes through.
func TranslateHover(m *mapping.SourceMap, generatedText, sourceText string, h *protocol.Hover) *protocol.Hover {
	if h == nil {
		return nil
	}
	if h.Range == nil {
		return h
	}
	span := SpanFromRange(*h.Range, generatedText)
	srcs := m.ToSourceRanges(span, mapping.CapHover)
	if len(srcs) == 0 {
		return nil
	}
	r := RangeFromSpan(srcs[0], sourceText)
	return &protocol.Hover{Contents: h.Contents, Range: &r}
}

// TranslateInlayHints projects inlay hint positions. Hints landing in glue
// code vanish.
func TranslateInlayHints(m *mapping.SourceMap, generatedText, sourceText string, hints []protocol.InlayHint) []protocol.InlayHint {
	var out []protocol.InlayHint
	for _, h := range hints {
		offset := position.OffsetAt(position.Place{Line: int(h.Position.Line), Character: int(h.Position.Character)}, generatedText)
		srcs := m.ToSourceRanges(position.NewSpan(offset, offset), mapping.CapHover)
		if len(srcs) == 0 {
			continue
		}
		place := position.PlaceAt(srcs[0].Start, sourceText)
		out = append(out, protocol.InlayHint{
			Position: protocol.Position{Line: uint32(place.Line), Character: uint32(place.Character)},
			Label:    h.Label,
		})
	}
	return out
}
