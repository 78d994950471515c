// Package backendtest provides a scriptable backend for engine tests.
package backendtest

import (
	"context"

	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/virtual"
)

// Fake is a Backend whose behavior is supplied per capability through
// function fields. Unset capabilities return nothing, which is exactly what
// a backend without that capability does.
type Fake struct {
	Langs []string

	FormatFunc      func(ctx context.Context, doc *virtual.VirtualDocument, opts protocol.FormattingOptions) ([]protocol.TextEdit, error)
	DiagnosticsFunc func(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Diagnostic, error)
	CompletionFunc  func(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.CompletionList, error)
	HoverFunc       func(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.Hover, error)
	TokensFunc      func(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Token, error)
	InlayHintsFunc  func(ctx context.Context, doc *virtual.VirtualDocument, span position.Span) ([]protocol.InlayHint, error)
}

func (f *Fake) Languages() []string {
	return f.Langs
}

func (f *Fake) Format(ctx context.Context, doc *virtual.VirtualDocument, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	if f.FormatFunc == nil {
		return nil, nil
	}
	return f.FormatFunc(ctx, doc, opts)
}

func (f *Fake) ProvideDiagnostics(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Diagnostic, error) {
	if f.DiagnosticsFunc == nil {
		return nil, nil
	}
	return f.DiagnosticsFunc(ctx, doc)
}

func (f *Fake) ProvideCompletionItems(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.CompletionList, error) {
	if f.CompletionFunc == nil {
		return nil, nil
	}
	return f.CompletionFunc(ctx, doc, offset)
}

func (f *Fake) ProvideHover(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.Hover, error) {
	if f.HoverFunc == nil {
		return nil, nil
	}
	return f.HoverFunc(ctx, doc, offset)
}

func (f *Fake) ProvideDocumentSemanticTokens(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Token, error) {
	if f.TokensFunc == nil {
		return nil, nil
	}
	return f.TokensFunc(ctx, doc)
}

func (f *Fake) ProvideInlayHints(ctx context.Context, doc *virtual.VirtualDocument, span position.Span) ([]protocol.InlayHint, error) {
	if f.InlayHintsFunc == nil {
		return nil, nil
	}
	return f.InlayHintsFunc(ctx, doc, span)
}
