package virtual

import (
	"regexp"

	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
)

// DefaultPlugins is the stock plugin set, in resolution order.
func DefaultPlugins() []Plugin {
	return []Plugin{
		&TemplatePlugin{},
		&ScriptPlugin{},
		&StylePlugin{},
		&CustomBlockPlugin{},
	}
}

// CustomBlockPlugin projects each custom block verbatim into its own
// virtual document with the full capability set.
type CustomBlockPlugin struct{}

func (p *CustomBlockPlugin) Name() string { return "custom-block" }

func (p *CustomBlockPlugin) Version() int { return 1 }

func (p *CustomBlockPlugin) ListEmbeddedFileNames(doc *document.Document, sections []document.Section) []string {
	var names []string
	for _, sec := range document.SectionsOfKind(sections, document.SectionCustomBlock) {
		names = append(names, CustomBlockName(SourceFileName(doc), sec.BlockType, sec.Index, sec.LanguageID))
	}
	return names
}

func (p *CustomBlockPlugin) ResolveEmbeddedFile(doc *document.Document, sections []document.Section, targetName string) (*Resolution, bool) {
	for _, sec := range document.SectionsOfKind(sections, document.SectionCustomBlock) {
		if CustomBlockName(SourceFileName(doc), sec.BlockType, sec.Index, sec.LanguageID) != targetName {
			continue
		}
		return &Resolution{
			LanguageID: sec.LanguageID,
			Chunks:     []Chunk{VerbatimChunk(sec.Text, sec.Span)},
		}, true
	}
	return nil, false
}

// ScriptPlugin projects script and script-setup sections verbatim.
type ScriptPlugin struct{}

func (p *ScriptPlugin) Name() string { return "script" }

func (p *ScriptPlugin) Version() int { return 1 }

func (p *ScriptPlugin) ListEmbeddedFileNames(doc *document.Document, sections []document.Section) []string {
	var names []string
	for _, sec := range sections {
		switch sec.Kind {
		case document.SectionScript:
			names = append(names, ScriptName(SourceFileName(doc), sec.Index, sec.LanguageID))
		case document.SectionScriptSetup:
			names = append(names, ScriptSetupName(SourceFileName(doc), sec.Index, sec.LanguageID))
		}
	}
	return names
}

func (p *ScriptPlugin) ResolveEmbeddedFile(doc *document.Document, sections []document.Section, targetName string) (*Resolution, bool) {
	for _, sec := range sections {
		var name string
		switch sec.Kind {
		case document.SectionScript:
			name = ScriptName(SourceFileName(doc), sec.Index, sec.LanguageID)
		case document.SectionScriptSetup:
			name = ScriptSetupName(SourceFileName(doc), sec.Index, sec.LanguageID)
		default:
			continue
		}
		if name != targetName {
			continue
		}
		return &Resolution{
			LanguageID: sec.LanguageID,
			Chunks:     []Chunk{VerbatimChunk(sec.Text, sec.Span)},
		}, true
	}
	return nil, false
}

// StylePlugin projects each style section verbatim, keeping its declared
// dialect as the language id so the matching style backend can be chosen.
type StylePlugin struct{}

func (p *StylePlugin) Name() string { return "style" }

func (p *StylePlugin) Version() int { return 1 }

func (p *StylePlugin) ListEmbeddedFileNames(doc *document.Document, sections []document.Section) []string {
	var names []string
	for _, sec := range document.SectionsOfKind(sections, document.SectionStyle) {
		names = append(names, StyleName(SourceFileName(doc), sec.Index, sec.LanguageID))
	}
	return names
}

func (p *StylePlugin) ResolveEmbeddedFile(doc *document.Document, sections []document.Section, targetName string) (*Resolution, bool) {
	for _, sec := range document.SectionsOfKind(sections, document.SectionStyle) {
		if StyleName(SourceFileName(doc), sec.Index, sec.LanguageID) != targetName {
			continue
		}
		return &Resolution{
			LanguageID: sec.LanguageID,
			Chunks:     []Chunk{VerbatimChunk(sec.Text, sec.Span)},
		}, true
	}
	return nil, false
}

// TemplatePlugin projects the template section twice: once verbatim as a
// markup document, and once as a synthesized type-checking script in which
// only the spans echoing real interpolation expressions carry capabilities,
// formatting included. The glue around them is capability-free so it is
// never formatted or diagnosed as if the user wrote it.
type TemplatePlugin struct{}

func (p *TemplatePlugin) Name() string { return "template" }

func (p *TemplatePlugin) Version() int { return 2 }

const templateScriptLang = "ts"

func (p *TemplatePlugin) ListEmbeddedFileNames(doc *document.Document, sections []document.Section) []string {
	var names []string
	for _, sec := range document.SectionsOfKind(sections, document.SectionTemplate) {
		names = append(names,
			TemplateName(SourceFileName(doc), sec.LanguageID),
			TemplateScriptName(SourceFileName(doc), templateScriptLang),
		)
	}
	return names
}

func (p *TemplatePlugin) ResolveEmbeddedFile(doc *document.Document, sections []document.Section, targetName string) (*Resolution, bool) {
	for _, sec := range document.SectionsOfKind(sections, document.SectionTemplate) {
		switch targetName {
		case TemplateName(SourceFileName(doc), sec.LanguageID):
			return &Resolution{
				LanguageID: sec.LanguageID,
				Chunks:     []Chunk{VerbatimChunk(sec.Text, sec.Span)},
			}, true
		case TemplateScriptName(SourceFileName(doc), templateScriptLang):
			return &Resolution{
				LanguageID: templateScriptLang,
				Chunks:     templateScriptChunks(sec),
				Parent:     TemplateName(SourceFileName(doc), sec.LanguageID),
			}, true
		}
	}
	return nil, false
}

var interpolationRe = regexp.MustCompile(`\{\{(.*?)\}\}`)

// templateScriptChunks synthesizes the type-checking script: a function
// body that evaluates every template interpolation expression against the
// component context. Only the echoed expression text maps back to source.
func templateScriptChunks(sec document.Section) []Chunk {
	chunks := []Chunk{
		GlueChunk("declare const __ctx: __TemplateContext;\nfunction __render() {\n"),
	}

	echoCaps := mapping.CapFormatting | mapping.CapDiagnostics | mapping.CapCompletion |
		mapping.CapHover | mapping.CapSemanticTokens | mapping.CapReferences

	for _, m := range interpolationRe.FindAllStringSubmatchIndex(sec.Text, -1) {
		exprStart, exprEnd := m[2], m[3]
		// trim surrounding whitespace so the mapped span covers only the
		// expression itself
		for exprStart < exprEnd && isSpace(sec.Text[exprStart]) {
			exprStart++
		}
		for exprEnd > exprStart && isSpace(sec.Text[exprEnd-1]) {
			exprEnd--
		}
		if exprStart == exprEnd {
			continue
		}
		src := position.NewSpan(sec.Span.Start+exprStart, sec.Span.Start+exprEnd)
		chunks = append(chunks,
			GlueChunk("  ("),
			Chunk{
				Text:         sec.Text[exprStart:exprEnd],
				Source:       &src,
				Capabilities: echoCaps,
			},
			GlueChunk(");\n"),
		)
	}

	chunks = append(chunks, GlueChunk("}\n"))
	return chunks
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
