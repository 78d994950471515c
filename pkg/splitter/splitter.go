// Package splitter yields the named top-level sections of a composite
// document: template, script, script-setup, style and custom blocks. The
// rest of the engine only depends on the Splitter interface, so a different
// front end grammar can be swapped in.
package splitter

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Splitter produces the sections of one composite document version.
type Splitter interface {
	Split(ctx context.Context, doc *document.Document) ([]document.Section, error)
}

// BlockSplitter is the default splitter: a scanner for top-level
// <tag ...>...</tag> blocks. Nested occurrences of the same tag inside the
// template are handled by depth counting.
type BlockSplitter struct {
	// CustomBlockLangs maps a custom block type to its content language when
	// the block carries no lang attribute (e.g. docs -> md).
	CustomBlockLangs map[string]string
}

func NewBlockSplitter() *BlockSplitter {
	return &BlockSplitter{
		CustomBlockLangs: map[string]string{},
	}
}

var openTagRe = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9-]*)((?:\s+[^<>]*?)?)\s*(/?)>`)

func (s *BlockSplitter) Split(ctx context.Context, doc *document.Document) ([]document.Section, error) {
	logger := zerolog.Ctx(ctx)

	var sections []document.Section
	counts := map[string]int{}
	text := doc.Text
	offset := 0

	for offset < len(text) {
		lt := strings.IndexByte(text[offset:], '<')
		if lt < 0 {
			break
		}
		offset += lt
		match := openTagRe.FindStringSubmatch(text[offset:])
		if match == nil {
			offset++
			continue
		}
		tag := match[1]
		attrs := match[2]
		selfClosing := match[3] == "/"
		openEnd := offset + len(match[0])

		if selfClosing {
			offset = openEnd
			continue
		}

		contentStart := openEnd
		contentEnd, closeEnd, ok := findClose(text, contentStart, tag)
		if !ok {
			return nil, errors.Errorf("splitting %s: unclosed <%s> block at offset %d", doc.URI, tag, offset)
		}

		sec, recognized := s.buildSection(tag, attrs, counts, position.NewSpan(contentStart, contentEnd), text[contentStart:contentEnd])
		if recognized {
			sections = append(sections, sec)
		}
		offset = closeEnd
	}

	logger.Debug().
		Str("uri", doc.URI).
		Int32("version", doc.Version).
		Int("sections", len(sections)).
		Msg("split composite document")

	return sections, nil
}

// findClose locates the matching </tag>, counting nested same-tag opens.
func findClose(text string, from int, tag string) (contentEnd, closeEnd int, ok bool) {
	depth := 1
	openToken := "<" + tag
	closeToken := "</" + tag
	pos := from
	for pos < len(text) {
		nextOpen := strings.Index(text[pos:], openToken)
		nextClose := strings.Index(text[pos:], closeToken)
		if nextClose < 0 {
			return 0, 0, false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			after := pos + nextOpen + len(openToken)
			if after < len(text) && isTagBoundary(text[after]) {
				depth++
			}
			pos += nextOpen + len(openToken)
			continue
		}
		after := pos + nextClose + len(closeToken)
		gt := strings.IndexByte(text[after:], '>')
		if gt < 0 {
			return 0, 0, false
		}
		depth--
		if depth == 0 {
			return pos + nextClose, after + gt + 1, true
		}
		pos = after + gt + 1
	}
	return 0, 0, false
}

func isTagBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '>' || b == '/'
}

func (s *BlockSplitter) buildSection(tag, attrs string, counts map[string]int, span position.Span, text string) (document.Section, bool) {
	lang := attrValue(attrs, "lang")

	switch tag {
	case "template":
		if lang == "" {
			lang = "html"
		}
		return document.Section{
			Kind:       document.SectionTemplate,
			LanguageID: lang,
			Span:       span,
			Text:       text,
		}, true
	case "script":
		if lang == "" {
			lang = "js"
		}
		kind := document.SectionScript
		if hasAttr(attrs, "setup") {
			kind = document.SectionScriptSetup
		}
		idx := counts[string(kind)]
		counts[string(kind)]++
		return document.Section{
			Kind:       kind,
			LanguageID: lang,
			Index:      idx,
			Span:       span,
			Text:       text,
		}, true
	case "style":
		if lang == "" {
			lang = "css"
		}
		idx := counts["style"]
		counts["style"]++
		return document.Section{
			Kind:       document.SectionStyle,
			LanguageID: lang,
			Index:      idx,
			Span:       span,
			Text:       text,
		}, true
	default:
		if lang == "" {
			if mapped, ok := s.CustomBlockLangs[tag]; ok {
				lang = mapped
			} else {
				lang = tag
			}
		}
		idx := counts["customBlock_"+tag]
		counts["customBlock_"+tag]++
		return document.Section{
			Kind:       document.SectionCustomBlock,
			BlockType:  tag,
			LanguageID: lang,
			Index:      idx,
			Span:       span,
			Text:       text,
		}, true
	}
}

var attrRe = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9-]*)(?:\s*=\s*"([^"]*)"|\s*=\s*'([^']*)')?`)

func attrValue(attrs, name string) string {
	for _, m := range attrRe.FindAllStringSubmatch(attrs, -1) {
		if m[1] != name {
			continue
		}
		if m[2] != "" {
			return m[2]
		}
		return m[3]
	}
	return ""
}

func hasAttr(attrs, name string) bool {
	for _, m := range attrRe.FindAllStringSubmatch(attrs, -1) {
		if m[1] == name {
			return true
		}
	}
	return false
}
