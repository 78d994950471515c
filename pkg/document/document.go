// Package document holds the text-buffer model shared by the whole engine:
// the composite source document, the sections split out of it, and the
// generated virtual documents handed to language backends.
package document

import (
	"github.com/walteh/embedls/pkg/position"
)

// Document is one version of a composite source file. Versions are
// immutable: applying an edit produces a new Document, and readers holding
// an older version keep a consistent snapshot.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
}

func NewDocument(uri, languageID string, version int32, text string) *Document {
	return &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Text:       text,
	}
}

// WithText returns the next version of the document with new text.
func (d *Document) WithText(text string) *Document {
	return &Document{
		URI:        d.URI,
		LanguageID: d.LanguageID,
		Version:    d.Version + 1,
		Text:       text,
	}
}

// Replace applies a single atomic span replacement, producing the next
// document version.
func (d *Document) Replace(span position.Span, newText string) *Document {
	return d.WithText(d.Text[:span.Start] + newText + d.Text[span.End:])
}

// SectionKind names the top-level block a section came from.
type SectionKind string

const (
	SectionTemplate    SectionKind = "template"
	SectionScript      SectionKind = "script"
	SectionScriptSetup SectionKind = "script-setup"
	SectionStyle       SectionKind = "style"
	SectionCustomBlock SectionKind = "custom-block"
)

// Section is a named region of the composite document in one embedded
// language. Sections are recomputed on every document change and owned by
// the splitter.
type Section struct {
	Kind SectionKind
	// BlockType is the raw tag name for custom blocks (e.g. "docs");
	// empty for the well-known kinds.
	BlockType string
	// LanguageID of the section content (html, js, ts, css, scss, md, ...).
	LanguageID string
	// Index disambiguates repeated kinds (style[0], style[1], ...).
	Index int
	// Span of the section content within the composite document text.
	Span position.Span
	Text string
}

// SectionsOfKind filters sections by kind, preserving order.
func SectionsOfKind(sections []Section, kind SectionKind) []Section {
	var out []Section
	for _, s := range sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
