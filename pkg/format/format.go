// Package format drives multi-pass whole-document formatting of a
// composite document: markup backends first, then script and style
// backends, then an indentation-repair pass. Every text-changing pass
// invalidates all generated offsets, so virtual documents and source maps
// are fully regenerated between passes; reusing a map across an apply
// would silently mis-map positions.
package format

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/embedls/pkg/backend"
	"github.com/walteh/embedls/pkg/compose"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/splitter"
	"github.com/walteh/embedls/pkg/virtual"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// State names the orchestrator's position in the pass sequence.
type State string

const (
	StateInitial         State = "initial"
	StatePugFormatted    State = "pug-formatted"
	StateHtmlFormatted   State = "html-formatted"
	StateScriptFormatted State = "script-formatted"
	StateStyleFormatted  State = "style-formatted"
	StateIndentPatched   State = "indent-patched"
	StateDone            State = "done"
)

var (
	pugLangs    = map[string]bool{"pug": true, "jade": true}
	markupLangs = map[string]bool{"html": true}
	scriptLangs = map[string]bool{"js": true, "ts": true, "jsx": true, "tsx": true}
)

// Orchestrator runs the formatting state machine. It is stateless across
// invocations; all per-run state lives on the stack.
type Orchestrator struct {
	splitter  splitter.Splitter
	generator *virtual.Generator
	backends  *backend.Registry
}

func NewOrchestrator(split splitter.Splitter, gen *virtual.Generator, backends *backend.Registry) *Orchestrator {
	return &Orchestrator{
		splitter:  split,
		generator: gen,
		backends:  backends,
	}
}

// Format produces at most one whole-document replacement edit. A nil edit
// means the document is already formatted. Backend failures contribute no
// edits and never abort the remaining passes.
func (o *Orchestrator) Format(ctx context.Context, doc *document.Document, opts protocol.FormattingOptions) (*protocol.TextEdit, State, error) {
	logger := zerolog.Ctx(ctx)
	original := doc.Text
	state := StateInitial

	// pass 1: templating/markup backends, applied as one atomic batch
	snap, err := o.regenerate(ctx, doc)
	if err != nil {
		return nil, state, err
	}

	pugEdits, pugErr := o.collectFormattingEdits(ctx, snap, pugLangs, opts)
	state = StatePugFormatted
	htmlEdits, htmlErr := o.collectFormattingEdits(ctx, snap, markupLangs, opts)
	state = StateHtmlFormatted
	if soft := multierr.Combine(pugErr, htmlErr); soft != nil {
		logger.Warn().Err(soft).Msg("markup formatting backends reported failures")
	}

	if edits := append(pugEdits, htmlEdits...); len(edits) > 0 {
		doc = applyEdits(doc, edits)
		// TODO: regeneration dominates the cost of this pass; it is
		// unavoidable because the apply shifted every downstream offset
		snap, err = o.regenerate(ctx, doc)
		if err != nil {
			return nil, state, err
		}
	}

	// pass 2: script backends, then style backends, each atomic
	scriptEdits, scriptErr := o.collectFormattingEdits(ctx, snap, scriptLangs, opts)
	if scriptErr != nil {
		logger.Warn().Err(scriptErr).Msg("script formatting backends reported failures")
	}
	if len(scriptEdits) > 0 {
		doc = applyEdits(doc, scriptEdits)
		snap, err = o.regenerate(ctx, doc)
		if err != nil {
			return nil, state, err
		}
	}
	state = StateScriptFormatted

	styleEdits, styleErr := o.collectFormattingEdits(ctx, snap, backend.StyleDialects, opts)
	if styleErr != nil {
		logger.Warn().Err(styleErr).Msg("style formatting backends reported failures")
	}
	if len(styleEdits) > 0 {
		doc = applyEdits(doc, styleEdits)
		snap, err = o.regenerate(ctx, doc)
		if err != nil {
			return nil, state, err
		}
	}
	state = StateStyleFormatted

	// pass 3: indentation repair for multi-line formatted regions
	patched := repairIndentation(snap)
	if patched != doc.Text {
		doc = doc.WithText(patched)
	}
	state = StateIndentPatched

	state = StateDone
	if doc.Text == original {
		logger.Debug().Str("uri", doc.URI).Msg("formatting produced no change")
		return nil, state, nil
	}

	fullSpan := position.NewSpan(0, len(original))
	return &protocol.TextEdit{
		Range:   compose.RangeFromSpan(fullSpan, original),
		NewText: doc.Text,
	}, state, nil
}

// regenerate re-splits the document and rebuilds all virtual documents and
// source maps for its current version.
func (o *Orchestrator) regenerate(ctx context.Context, doc *document.Document) (*virtual.Snapshot, error) {
	sections, err := o.splitter.Split(ctx, doc)
	if err != nil {
		return nil, errors.Errorf("splitting %s: %w", doc.URI, err)
	}
	return o.generator.Generate(ctx, doc, sections), nil
}

// collectFormattingEdits asks the matching backend of every virtual
// document in the language set for formatting edits and translates them to
// composite coordinates. A document without a source map is skipped for
// this pass; a failing backend contributes nothing and is reported in the
// aggregated (non-fatal) error.
func (o *Orchestrator) collectFormattingEdits(ctx context.Context, snap *virtual.Snapshot, langs map[string]bool, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	logger := zerolog.Ctx(ctx)
	var out []protocol.TextEdit
	var soft error

	for _, vdoc := range snap.Documents() {
		if !langs[vdoc.LanguageID] {
			continue
		}
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			logger.Debug().Str("virtual_doc", vdoc.Name).Msg("source map unavailable, skipping for this pass")
			continue
		}
		if !mapSupportsFormatting(m) {
			continue
		}
		b, ok := o.backends.ForDocument(vdoc)
		if !ok {
			continue
		}

		callCtx := backend.WithInvocation(ctx, "format", vdoc)
		edits, err := b.Format(callCtx, vdoc, opts)
		if err != nil {
			soft = multierr.Append(soft, errors.Errorf("formatting %s: %w", vdoc.Name, err))
			continue
		}
		out = append(out, compose.TranslateEdits(m, vdoc.Text, snap.Document.Text, edits, mapping.CapFormatting)...)
	}

	return out, soft
}

func mapSupportsFormatting(m *mapping.SourceMap) bool {
	for _, e := range m.Entries() {
		if e.Capabilities.Has(mapping.CapFormatting) {
			return true
		}
	}
	return false
}

// applyEdits applies one batch of composite-coordinate edits as a single
// atomic replacement, producing the next document version.
func applyEdits(doc *document.Document, edits []protocol.TextEdit) *document.Document {
	type spanEdit struct {
		span position.Span
		text string
	}
	resolved := make([]spanEdit, 0, len(edits))
	for _, e := range edits {
		resolved = append(resolved, spanEdit{
			span: compose.SpanFromRange(e.Range, doc.Text),
			text: e.NewText,
		})
	}
	// apply back to front so earlier spans stay valid; the stable ascending
	// sort keeps same-offset inserts in their given order
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].span.Start < resolved[j].span.Start
	})
	text := doc.Text
	for i := len(resolved) - 1; i >= 0; i-- {
		e := resolved[i]
		text = text[:e.span.Start] + e.text + text[e.span.End:]
	}
	return doc.WithText(text)
}

// repairIndentation fixes regions that were formatted in isolation and
// spliced back at a different indentation level. For every
// formatting-capable entry whose source text spans multiple lines, interior
// lines carrying the removal indent (the leading whitespace of the span's
// last line) are re-based onto the base indent (the leading whitespace of
// the line containing the span's start).
func repairIndentation(snap *virtual.Snapshot) string {
	text := snap.Document.Text

	type patch struct {
		span position.Span
		text string
	}
	var patches []patch
	covered := map[position.Span]bool{}

	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		for _, e := range m.Entries() {
			if !e.Capabilities.Has(mapping.CapFormatting) {
				continue
			}
			if covered[e.Source] {
				continue
			}
			covered[e.Source] = true
			spanText := text[e.Source.Start:e.Source.End]
			if !strings.Contains(spanText, "\n") {
				continue
			}
			repaired := repairSpan(spanText, baseIndentAt(text, e.Source.Start))
			if repaired != spanText {
				patches = append(patches, patch{span: e.Source, text: repaired})
			}
		}
	}

	sort.Slice(patches, func(i, j int) bool {
		return patches[i].span.Start > patches[j].span.Start
	})
	for _, p := range patches {
		text = text[:p.span.Start] + p.text + text[p.span.End:]
	}
	return text
}

// baseIndentAt is the leading whitespace of the line containing offset.
func baseIndentAt(text string, offset int) string {
	lineStart := position.LineStart(offset, text)
	lineEnd := strings.IndexByte(text[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - lineStart
	}
	return position.LeadingWhitespace(text[lineStart : lineStart+lineEnd])
}

// repairSpan re-indents the interior lines of one multi-line span. Lines
// starting with the removal indent get it replaced by the base indent;
// shallower lines are prefixed with the base indent minus the removal
// prefix.
func repairSpan(spanText, baseIndent string) string {
	lines := strings.Split(spanText, "\n")
	removalIndent := position.LeadingWhitespace(lines[len(lines)-1])

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, removalIndent) {
			lines[i] = baseIndent + line[len(removalIndent):]
		} else {
			lines[i] = strings.TrimPrefix(baseIndent, removalIndent) + line
		}
	}
	return strings.Join(lines, "\n")
}
