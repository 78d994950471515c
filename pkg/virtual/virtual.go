// Package virtual generates the per-language virtual documents projected out
// of a composite document, together with the source maps that relate them
// back to it.
//
// Generation is plugin driven: each plugin lists the embedded file names it
// can produce for a document and resolves a name into a chunk sequence. The
// first plugin to resolve a name wins.
package virtual

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
)

// Chunk is one piece of a virtual document: verbatim source text when
// Source is set, synthesized glue code when it is nil. Glue code carries no
// capabilities and therefore never maps back to the composite document.
type Chunk struct {
	Text         string
	Source       *position.Span
	Capabilities mapping.Capability
}

// VerbatimChunk echoes source text with the full capability set.
func VerbatimChunk(text string, src position.Span) Chunk {
	return Chunk{Text: text, Source: &src, Capabilities: mapping.EnableAllFeatures()}
}

// GlueChunk is synthesized code with no source origin and no capabilities.
func GlueChunk(text string) Chunk {
	return Chunk{Text: text}
}

// VirtualDocument is a generated, language-homogeneous document handed to a
// backend. It is immutable; every rebuild produces a new value with a new
// Generation id.
type VirtualDocument struct {
	Name       string
	LanguageID string
	Text       string
	Chunks     []Chunk
	Generation string
}

func newVirtualDocument(name, languageID string, chunks []Chunk) *VirtualDocument {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	return &VirtualDocument{
		Name:       name,
		LanguageID: languageID,
		Text:       sb.String(),
		Chunks:     chunks,
		Generation: xid.New().String(),
	}
}

// Resolution is a plugin's answer for one embedded file name.
type Resolution struct {
	LanguageID string
	Chunks     []Chunk
	// Parent optionally names the virtual document this one descends from,
	// e.g. the template-derived script descends from the template markup
	// document.
	Parent string
}

// Plugin contributes virtual documents for a composite document. Plugins
// are tried in registration order; the first to resolve a target name wins.
type Plugin interface {
	Name() string
	// Version participates in the generator's cache key so a plugin-contract
	// change forces full regeneration.
	Version() int
	ListEmbeddedFileNames(doc *document.Document, sections []document.Section) []string
	ResolveEmbeddedFile(doc *document.Document, sections []document.Section, targetName string) (*Resolution, bool)
}

// Snapshot is the complete set of virtual documents and source maps for one
// composite document version. Snapshots are immutable; regeneration builds
// a new one, so readers of an older snapshot keep a consistent view.
type Snapshot struct {
	Document *document.Document

	docs    []*VirtualDocument
	maps    []*mapping.SourceMap
	parents []int
	byName  map[string]int
	version int
}

func (s *Snapshot) Documents() []*VirtualDocument {
	return s.docs
}

func (s *Snapshot) Get(name string) (*VirtualDocument, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.docs[i], true
}

// Map returns the source map for a virtual document. A missing map means
// the document is unavailable for the current pass and must be skipped.
func (s *Snapshot) Map(name string) (*mapping.SourceMap, bool) {
	i, ok := s.byName[name]
	if !ok || s.maps[i] == nil {
		return nil, false
	}
	return s.maps[i], true
}

// Parent resolves the virtual document a generated document descends from,
// via the snapshot's index table rather than a live back-reference.
func (s *Snapshot) Parent(name string) (*VirtualDocument, bool) {
	i, ok := s.byName[name]
	if !ok || s.parents[i] < 0 {
		return nil, false
	}
	return s.docs[s.parents[i]], true
}

// Generator owns the ordered plugin list and the snapshot cache.
type Generator struct {
	plugins []Plugin

	mu    sync.Mutex
	cache map[string]*Snapshot
}

func NewGenerator(plugins ...Plugin) *Generator {
	return &Generator{
		plugins: plugins,
		cache:   map[string]*Snapshot{},
	}
}

// combinedVersion changes whenever any plugin's declared version changes.
func (g *Generator) combinedVersion() int {
	v := 0
	for _, p := range g.plugins {
		v = v*31 + p.Version()
	}
	return v
}

// Generate produces (or returns the cached) snapshot for one composite
// document version.
func (g *Generator) Generate(ctx context.Context, doc *document.Document, sections []document.Section) *Snapshot {
	logger := zerolog.Ctx(ctx)

	version := g.combinedVersion()

	g.mu.Lock()
	cached, ok := g.cache[doc.URI]
	g.mu.Unlock()
	if ok && cached.Document.Version == doc.Version && cached.version == version {
		return cached
	}

	snap := &Snapshot{
		Document: doc,
		byName:   map[string]int{},
		version:  version,
	}

	var names []string
	seen := map[string]bool{}
	for _, p := range g.plugins {
		for _, name := range p.ListEmbeddedFileNames(doc, sections) {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	parentNames := map[string]string{}
	for _, name := range names {
		res, plugin := g.resolve(doc, sections, name)
		if res == nil {
			logger.Debug().Str("target", name).Msg("no plugin resolved embedded file")
			continue
		}
		vdoc := newVirtualDocument(name, res.LanguageID, res.Chunks)
		snap.byName[name] = len(snap.docs)
		snap.docs = append(snap.docs, vdoc)
		snap.maps = append(snap.maps, deriveSourceMap(res.Chunks))
		snap.parents = append(snap.parents, -1)
		parentNames[name] = res.Parent

		logger.Trace().
			Str("target", name).
			Str("plugin", plugin).
			Str("lang", res.LanguageID).
			Int("chunks", len(res.Chunks)).
			Msg("generated virtual document")
	}

	for name, parent := range parentNames {
		if parent == "" {
			continue
		}
		if pi, ok := snap.byName[parent]; ok {
			snap.parents[snap.byName[name]] = pi
		}
	}

	g.mu.Lock()
	g.cache[doc.URI] = snap
	g.mu.Unlock()

	return snap
}

func (g *Generator) resolve(doc *document.Document, sections []document.Section, name string) (*Resolution, string) {
	for _, p := range g.plugins {
		if res, ok := p.ResolveEmbeddedFile(doc, sections, name); ok {
			return res, p.Name()
		}
	}
	return nil, ""
}

// deriveSourceMap walks the chunk sequence accumulating generated offsets.
// Glue chunks advance the generated cursor but contribute no entries.
func deriveSourceMap(chunks []Chunk) *mapping.SourceMap {
	var entries []mapping.Entry
	offset := 0
	for _, c := range chunks {
		if c.Source != nil {
			entries = append(entries, mapping.Entry{
				Source:       *c.Source,
				Generated:    position.NewSpan(offset, offset+len(c.Text)),
				Capabilities: c.Capabilities,
			})
		}
		offset += len(c.Text)
	}
	return mapping.NewSourceMap(entries)
}

// SourceFileName is the file name component the naming scheme is built on.
func SourceFileName(doc *document.Document) string {
	return path.Base(strings.TrimPrefix(doc.URI, "file://"))
}

// CustomBlockName builds the stable generated name for a custom block, e.g.
// "Widget.vue.customBlock_docs_0.md".
func CustomBlockName(sourceName, blockType string, index int, lang string) string {
	return fmt.Sprintf("%s.customBlock_%s_%d.%s", sourceName, blockType, index, lang)
}

// TemplateName is the markup projection of the template section.
func TemplateName(sourceName, lang string) string {
	return fmt.Sprintf("%s.template_.%s", sourceName, lang)
}

// TemplateScriptName is the synthesized type-checking script derived from
// the template section.
func TemplateScriptName(sourceName, lang string) string {
	return fmt.Sprintf("%s.template_script_.%s", sourceName, lang)
}

// TemplateDerived reports whether a generated name belongs to one of the
// template section's projections.
func TemplateDerived(name string) bool {
	return strings.Contains(name, ".template_.") || strings.Contains(name, ".template_script_.")
}

func ScriptName(sourceName string, index int, lang string) string {
	return fmt.Sprintf("%s.script_%d.%s", sourceName, index, lang)
}

func ScriptSetupName(sourceName string, index int, lang string) string {
	return fmt.Sprintf("%s.script_setup_%d.%s", sourceName, index, lang)
}

func StyleName(sourceName string, index int, lang string) string {
	return fmt.Sprintf("%s.style_%d.%s", sourceName, index, lang)
}
