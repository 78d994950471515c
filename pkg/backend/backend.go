// Package backend defines the request/response contract the engine consumes
// from external language services. The engine never inspects a backend
// beyond this interface; a backend that fails or returns nothing simply
// contributes no results.
package backend

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/virtual"
)

// Backend is one external language service. All results are expressed in
// the virtual document's own coordinate space.
type Backend interface {
	// Languages lists the language ids this backend serves.
	Languages() []string

	Format(ctx context.Context, doc *virtual.VirtualDocument, opts protocol.FormattingOptions) ([]protocol.TextEdit, error)
	ProvideDiagnostics(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Diagnostic, error)
	ProvideCompletionItems(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.CompletionList, error)
	ProvideHover(ctx context.Context, doc *virtual.VirtualDocument, offset int) (*protocol.Hover, error)
	ProvideDocumentSemanticTokens(ctx context.Context, doc *virtual.VirtualDocument) ([]protocol.Token, error)
	ProvideInlayHints(ctx context.Context, doc *virtual.VirtualDocument, span position.Span) ([]protocol.InlayHint, error)
}

// StyleDialects are the style language ids the engine routes to style
// backends. Unrecognized dialects are skipped, not errors.
var StyleDialects = map[string]bool{
	"css":     true,
	"less":    true,
	"scss":    true,
	"postcss": true,
}

// Registry maps language ids to backends. Lookup is a direct map access;
// a missing backend means the language is simply not served.
type Registry struct {
	byLanguage map[string]Backend
}

func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{byLanguage: map[string]Backend{}}
	for _, b := range backends {
		for _, lang := range b.Languages() {
			r.byLanguage[lang] = b
		}
	}
	return r
}

// ForLanguage returns the backend serving a language id.
func (r *Registry) ForLanguage(lang string) (Backend, bool) {
	b, ok := r.byLanguage[lang]
	return b, ok
}

// ForDocument returns the backend serving a virtual document's language.
func (r *Registry) ForDocument(doc *virtual.VirtualDocument) (Backend, bool) {
	return r.ForLanguage(doc.LanguageID)
}

// WithInvocation tags the context logger with a correlation id for one
// backend call, so a backend's log lines can be tied to the pass that
// issued them.
func WithInvocation(ctx context.Context, method string, doc *virtual.VirtualDocument) context.Context {
	logger := zerolog.Ctx(ctx).With().
		Str("invocation_id", uuid.NewString()).
		Str("method", method).
		Str("virtual_doc", doc.Name).
		Str("lang", doc.LanguageID).
		Logger()
	return logger.WithContext(ctx)
}
