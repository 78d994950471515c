package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/compose"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
)

// sourceText embeds generatedText at offset 10 on line 1.
const (
	sourceText    = "<template>abcdefghij</template>"
	generatedText = "abcdefghij"
)

func verbatimMap(caps mapping.Capability) *mapping.SourceMap {
	return mapping.NewSourceMap([]mapping.Entry{
		{
			Source:       position.NewSpan(10, 20),
			Generated:    position.NewSpan(0, 10),
			Capabilities: caps,
		},
	})
}

func TestTranslateEdits(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	edits := []protocol.TextEdit{
		{
			Range:   compose.RangeFromSpan(position.NewSpan(2, 5), generatedText),
			NewText: "XYZ",
		},
	}
	out := compose.TranslateEdits(m, generatedText, sourceText, edits, mapping.CapFormatting)
	require.Len(t, out, 1)
	assert.Equal(t, "XYZ", out[0].NewText)
	assert.Equal(t, position.NewSpan(12, 15), compose.SpanFromRange(out[0].Range, sourceText))
}

func TestTranslateEditsCapabilityDenied(t *testing.T) {
	m := verbatimMap(mapping.CapDiagnostics)

	edits := []protocol.TextEdit{
		{
			Range:   compose.RangeFromSpan(position.NewSpan(2, 5), generatedText),
			NewText: "XYZ",
		},
	}
	// the covering entry lacks formatting, so the edit is discarded
	// entirely, never partially applied
	assert.Empty(t, compose.TranslateEdits(m, generatedText, sourceText, edits, mapping.CapFormatting))
}

func TestTranslateEditSplitAcrossEntries(t *testing.T) {
	// "ab" + "ij" from two disjoint source regions concatenated in the
	// generated document
	m := mapping.NewSourceMap([]mapping.Entry{
		{Source: position.NewSpan(10, 12), Generated: position.NewSpan(0, 2), Capabilities: mapping.EnableAllFeatures()},
		{Source: position.NewSpan(18, 20), Generated: position.NewSpan(2, 4), Capabilities: mapping.EnableAllFeatures()},
	})

	edits := []protocol.TextEdit{
		{Range: compose.RangeFromSpan(position.NewSpan(1, 3), "abij"), NewText: "!"},
	}
	out := compose.TranslateEdits(m, "abij", sourceText, edits, mapping.CapFormatting)
	require.Len(t, out, 2, "a straddling edit splits into one edit per destination range")
	assert.Equal(t, position.NewSpan(11, 12), compose.SpanFromRange(out[0].Range, sourceText))
	assert.Equal(t, position.NewSpan(18, 19), compose.SpanFromRange(out[1].Range, sourceText))
	assert.Equal(t, "!", out[0].NewText)
	assert.Equal(t, "!", out[1].NewText)
}

func TestTranslateDiagnostics(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	rng := compose.RangeFromSpan(position.NewSpan(0, 3), generatedText)
	diags := []protocol.Diagnostic{
		{Range: &rng, Severity: protocol.SeverityError, Message: "boom"},
	}
	out := compose.TranslateDiagnostics(m, generatedText, sourceText, diags, position.NewSpan(0, 0))
	require.Len(t, out, 1)
	assert.Equal(t, "boom", out[0].Message)
	assert.Equal(t, position.NewSpan(10, 13), compose.SpanFromRange(*out[0].Range, sourceText))
}

func TestTranslateDiagnosticsLocationlessFallback(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	diags := []protocol.Diagnostic{
		{Message: "template compile error"},
	}
	fallback := position.NewSpan(10, 10)
	out := compose.TranslateDiagnostics(m, generatedText, sourceText, diags, fallback)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Range)
	assert.Equal(t, fallback, compose.SpanFromRange(*out[0].Range, sourceText))
}

func TestTranslateDiagnosticsInGlueDropped(t *testing.T) {
	// map with a gap: generated [20,30) is glue
	m := verbatimMap(mapping.EnableAllFeatures())
	gen := generatedText + "__glue_code__________"

	rng := compose.RangeFromSpan(position.NewSpan(12, 15), gen)
	out := compose.TranslateDiagnostics(m, gen, sourceText, []protocol.Diagnostic{{Range: &rng, Message: "in glue"}}, position.NewSpan(0, 0))
	assert.Empty(t, out)
}

func TestTranslateHover(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	rng := compose.RangeFromSpan(position.NewSpan(2, 4), generatedText)
	h := &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: "markdown", Value: "docs"},
		Range:    &rng,
	}
	out := compose.TranslateHover(m, generatedText, sourceText, h)
	require.NotNil(t, out)
	assert.Equal(t, "docs", out.Contents.Value)
	assert.Equal(t, position.NewSpan(12, 14), compose.SpanFromRange(*out.Range, sourceText))

	assert.Nil(t, compose.TranslateHover(m, generatedText, sourceText, nil))

	// hover over glue vanishes
	denied := verbatimMap(mapping.CapFormatting)
	assert.Nil(t, compose.TranslateHover(denied, generatedText, sourceText, h))
}

func TestTranslateInlayHints(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	hints := []protocol.InlayHint{
		{Position: protocol.Position{Line: 0, Character: 3}, Label: ": string"},
	}
	out := compose.TranslateInlayHints(m, generatedText, sourceText, hints)
	require.Len(t, out, 1)
	assert.Equal(t, ": string", out[0].Label)
	assert.Equal(t, uint32(13), out[0].Position.Character)
}
