// Package lsp exposes the projection engine through LSP-shaped capability
// entry points. Transport is the caller's concern; the server only turns a
// request against a composite document into backend requests against the
// covering virtual documents and composes the results back.
package lsp

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/walteh/embedls/pkg/backend"
	"github.com/walteh/embedls/pkg/compose"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/format"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/splitter"
	"github.com/walteh/embedls/pkg/tagdata"
	"github.com/walteh/embedls/pkg/virtual"
	"gitlab.com/tozd/go/errors"
)

// Server ties the engine together for one editing session.
type Server struct {
	id        string
	documents *DocumentManager

	splitter  splitter.Splitter
	generator *virtual.Generator
	backends  *backend.Registry
	formatter *format.Orchestrator

	// tagData is the process-wide built-in metadata handle, loaded once by
	// the caller and passed in by reference.
	tagData *tagdata.Data

	// components are the resolved component identifiers for semantic token
	// reclassification.
	components *compose.ComponentMatcher
}

type Options struct {
	Splitter   splitter.Splitter
	Plugins    []virtual.Plugin
	Backends   *backend.Registry
	TagData    *tagdata.Data
	Components []string
}

func NewServer(ctx context.Context, opts Options) *Server {
	split := opts.Splitter
	if split == nil {
		split = splitter.NewBlockSplitter()
	}
	plugins := opts.Plugins
	if len(plugins) == 0 {
		plugins = virtual.DefaultPlugins()
	}
	gen := virtual.NewGenerator(plugins...)

	s := &Server{
		id:         xid.New().String(),
		documents:  NewDocumentManager(),
		splitter:   split,
		generator:  gen,
		backends:   opts.Backends,
		formatter:  format.NewOrchestrator(split, gen, opts.Backends),
		tagData:    opts.TagData,
		components: compose.NewComponentMatcher(opts.Components),
	}

	zerolog.Ctx(ctx).Debug().Str("server_id", s.id).Msg("created projection server")
	return s
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// DidOpen registers a composite document.
func (s *Server) DidOpen(ctx context.Context, uri, languageID string, version int32, text string) {
	zerolog.Ctx(ctx).Debug().Str("uri", uri).Msg("document opened")
	s.documents.Store(document.NewDocument(uri, languageID, version, text))
}

// DidChange replaces the full document content, producing a new version.
func (s *Server) DidChange(ctx context.Context, uri string, text string) error {
	doc, ok := s.documents.Get(uri)
	if !ok {
		return errors.Errorf("document not found: %s", uri)
	}
	s.documents.Store(doc.WithText(text))
	return nil
}

func (s *Server) DidClose(ctx context.Context, uri string) {
	zerolog.Ctx(ctx).Debug().Str("uri", uri).Msg("document closed")
	s.documents.Delete(uri)
}

// snapshot splits and regenerates the current version of a document.
func (s *Server) snapshot(ctx context.Context, uri string) (*document.Document, []document.Section, *virtual.Snapshot, error) {
	doc, ok := s.documents.Get(uri)
	if !ok {
		return nil, nil, nil, errors.Errorf("document not found: %s", uri)
	}
	sections, err := s.splitter.Split(ctx, doc)
	if err != nil {
		return nil, nil, nil, errors.Errorf("splitting %s: %w", uri, err)
	}
	return doc, sections, s.generator.Generate(ctx, doc, sections), nil
}

// Formatting runs the multi-pass orchestrator and returns at most one
// whole-document replace edit.
func (s *Server) Formatting(ctx context.Context, uri string, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	doc, ok := s.documents.Get(uri)
	if !ok {
		return nil, errors.Errorf("document not found: %s", uri)
	}
	edit, state, err := s.formatter.Format(ctx, doc, opts)
	if err != nil {
		return nil, errors.Errorf("formatting %s: %w", uri, err)
	}
	zerolog.Ctx(ctx).Debug().Str("uri", uri).Str("state", string(state)).Bool("changed", edit != nil).Msg("formatting finished")
	if edit == nil {
		return nil, nil
	}
	return []protocol.TextEdit{*edit}, nil
}

// Diagnostic collects diagnostics from every capable virtual document.
// Backend failures degrade to fewer results, never to an error. Rangeless
// diagnostics from template projections anchor at the template start; from
// any other projection they anchor at that projection's own first mapped
// source position.
func (s *Server) Diagnostic(ctx context.Context, uri string) ([]protocol.Diagnostic, error) {
	logger := zerolog.Ctx(ctx)
	doc, sections, snap, err := s.snapshot(ctx, uri)
	if err != nil {
		return nil, err
	}

	templateFallback := templateStart(sections)
	var out []protocol.Diagnostic
	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		b, ok := s.backends.ForDocument(vdoc)
		if !ok {
			continue
		}
		callCtx := backend.WithInvocation(ctx, "diagnostics", vdoc)
		diags, err := b.ProvideDiagnostics(callCtx, vdoc)
		if err != nil {
			logger.Warn().Err(err).Str("virtual_doc", vdoc.Name).Msg("diagnostics backend failed, skipping")
			continue
		}
		fallback := mappedStart(m)
		if virtual.TemplateDerived(vdoc.Name) {
			fallback = templateFallback
		}
		out = append(out, compose.TranslateDiagnostics(m, vdoc.Text, doc.Text, diags, fallback)...)
	}
	return out, nil
}

// mappedStart is the first mapped source position of a virtual document.
func mappedStart(m *mapping.SourceMap) position.Span {
	entries := m.Entries()
	if len(entries) == 0 {
		return position.NewSpan(0, 0)
	}
	return position.NewSpan(entries[0].Source.Start, entries[0].Source.Start)
}

// Hover resolves the virtual document covering the position and projects
// the backend's hover back.
func (s *Server) Hover(ctx context.Context, uri string, pos protocol.Position) (*protocol.Hover, error) {
	doc, _, snap, err := s.snapshot(ctx, uri)
	if err != nil {
		return nil, err
	}

	offset := position.OffsetAt(position.Place{Line: int(pos.Line), Character: int(pos.Character)}, doc.Text)
	query := position.NewSpan(offset, offset)

	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		gens := m.ToGeneratedRanges(query, mapping.CapHover)
		if len(gens) == 0 {
			continue
		}
		b, ok := s.backends.ForDocument(vdoc)
		if !ok {
			continue
		}
		callCtx := backend.WithInvocation(ctx, "hover", vdoc)
		h, err := b.ProvideHover(callCtx, vdoc, gens[0].Start)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("virtual_doc", vdoc.Name).Msg("hover backend failed, skipping")
			continue
		}
		if translated := compose.TranslateHover(m, vdoc.Text, doc.Text, h); translated != nil {
			return translated, nil
		}
	}
	return nil, nil
}

// Completion resolves the covering virtual document and runs the semantic
// enrichment pass on the translated items.
func (s *Server) Completion(ctx context.Context, uri string, pos protocol.Position) (*protocol.CompletionList, error) {
	doc, _, snap, err := s.snapshot(ctx, uri)
	if err != nil {
		return nil, err
	}

	offset := position.OffsetAt(position.Place{Line: int(pos.Line), Character: int(pos.Character)}, doc.Text)
	query := position.NewSpan(offset, offset)

	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		gens := m.ToGeneratedRanges(query, mapping.CapCompletion)
		if len(gens) == 0 {
			continue
		}
		b, ok := s.backends.ForDocument(vdoc)
		if !ok {
			continue
		}
		callCtx := backend.WithInvocation(ctx, "completion", vdoc)
		list, err := b.ProvideCompletionItems(callCtx, vdoc, gens[0].Start)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("virtual_doc", vdoc.Name).Msg("completion backend failed, skipping")
			continue
		}
		if list == nil {
			continue
		}
		return compose.TranslateCompletionList(m, vdoc.Text, doc.Text, list, s.tagData), nil
	}
	return nil, nil
}

// SemanticTokensFull collects tokens from every capable virtual document,
// reclassifying tag tokens that match known components.
func (s *Server) SemanticTokensFull(ctx context.Context, uri string) ([]protocol.Token, error) {
	doc, _, snap, err := s.snapshot(ctx, uri)
	if err != nil {
		return nil, err
	}

	var out []protocol.Token
	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		b, ok := s.backends.ForDocument(vdoc)
		if !ok {
			continue
		}
		callCtx := backend.WithInvocation(ctx, "semantic-tokens", vdoc)
		tokens, err := b.ProvideDocumentSemanticTokens(callCtx, vdoc)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("virtual_doc", vdoc.Name).Msg("semantic tokens backend failed, skipping")
			continue
		}
		out = append(out, compose.TranslateTokens(m, vdoc.Text, doc.Text, tokens, s.components)...)
	}
	return out, nil
}

// InlayHint collects hints over a composite range from every covering
// virtual document.
func (s *Server) InlayHint(ctx context.Context, uri string, rng protocol.Range) ([]protocol.InlayHint, error) {
	doc, _, snap, err := s.snapshot(ctx, uri)
	if err != nil {
		return nil, err
	}

	query := compose.SpanFromRange(rng, doc.Text)
	var out []protocol.InlayHint
	for _, vdoc := range snap.Documents() {
		m, ok := snap.Map(vdoc.Name)
		if !ok {
			continue
		}
		gens := m.ToGeneratedRanges(query, mapping.CapHover)
		if len(gens) == 0 {
			continue
		}
		b, ok := s.backends.ForDocument(vdoc)
		if !ok {
			continue
		}
		callCtx := backend.WithInvocation(ctx, "inlay-hints", vdoc)
		hints, err := b.ProvideInlayHints(callCtx, vdoc, gens[0])
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("virtual_doc", vdoc.Name).Msg("inlay hints backend failed, skipping")
			continue
		}
		out = append(out, compose.TranslateInlayHints(m, vdoc.Text, doc.Text, hints)...)
	}
	return out, nil
}

// templateStart is the default location for locationless templating-backend
// diagnostics.
func templateStart(sections []document.Section) position.Span {
	for _, sec := range sections {
		if sec.Kind == document.SectionTemplate {
			return position.NewSpan(sec.Span.Start, sec.Span.Start)
		}
	}
	return position.NewSpan(0, 0)
}
