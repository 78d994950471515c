package compose

import (
	"strings"

	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
)

// TokenTypeComponent is the reclassified token type for tags matching a
// resolved component identifier.
const TokenTypeComponent = "component"

// ComponentMatcher matches tag names against the component identifiers
// resolved from the embedded script analysis.
type ComponentMatcher struct {
	exact     map[string]bool
	hyphenate map[string]bool
}

func NewComponentMatcher(names []string) *ComponentMatcher {
	m := &ComponentMatcher{
		exact:     map[string]bool{},
		hyphenate: map[string]bool{},
	}
	for _, n := range names {
		m.exact[n] = true
		m.hyphenate[Hyphenate(n)] = true
	}
	return m
}

// Match reports whether a tag name denotes a known component: exact match
// or hyphenated-case match. Namespaced tags (Foo.Bar) are matched on the
// segment before the first separator only.
func (m *ComponentMatcher) Match(tag string) bool {
	if dot := strings.IndexByte(tag, '.'); dot >= 0 {
		tag = tag[:dot]
	}
	return m.exact[tag] || m.hyphenate[Hyphenate(tag)]
}

// Hyphenate converts a PascalCase or camelCase identifier to its
// hyphenated lower-case form: "FooBar" -> "foo-bar". Existing hyphens are
// kept as-is, so "My-Button" also yields "my-button".
func Hyphenate(name string) string {
	var sb strings.Builder
	var prev rune
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && prev != '-' {
				sb.WriteByte('-')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
		prev = r
	}
	return sb.String()
}

// TranslateTokens projects semantic tokens back into the composite
// document. Tag-name tokens whose text matches a known component are
// reclassified to the component token type; the backend's generic category
// is kept otherwise.
func TranslateTokens(m *mapping.SourceMap, generatedText, sourceText string, tokens []protocol.Token, components *ComponentMatcher) []protocol.Token {
	var out []protocol.Token
	for _, tok := range tokens {
		span := SpanFromRange(tok.Range, generatedText)
		text := ""
		if span.Start >= 0 && span.End <= len(generatedText) && span.Start <= span.End {
			text = generatedText[span.Start:span.End]
		}
		for _, src := range m.ToSourceRanges(span, mapping.CapSemanticTokens) {
			translated := tok
			translated.Range = RangeFromSpan(src, sourceText)
			if components != nil && isTagToken(tok.Type) && components.Match(text) {
				translated.Type = TokenTypeComponent
			}
			out = append(out, translated)
		}
	}
	return out
}

// isTagToken reports whether a backend token category can denote a markup
// tag name.
func isTagToken(tokenType string) bool {
	switch tokenType {
	case "type", "class", "element", "tag":
		return true
	}
	return false
}
