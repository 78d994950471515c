package compose

import (
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/tagdata"
)

// Sort-group prefixes. Component-derived completions sort ahead of generic
// markup completions, directives group after attributes, structural
// directives last.
const (
	sortGroupComponent  = "0_"
	sortGroupAttribute  = "2_"
	sortGroupDirective  = "3_"
	sortGroupStructural = "4_"
	sortGroupDefault    = "1_"
)

// TranslateCompletionList projects completion insertion ranges back into
// the composite document and then runs the semantic pass: items denoting
// known component tags, props or events (detected via metadata encoded in
// the documentation field) are recolored and reordered, and the encoding is
// stripped so it never reaches the caller.
func TranslateCompletionList(m *mapping.SourceMap, generatedText, sourceText string, list *protocol.CompletionList, data *tagdata.Data) *protocol.CompletionList {
	if list == nil {
		return nil
	}
	out := &protocol.CompletionList{IsIncomplete: list.IsIncomplete}
	for _, item := range list.Items {
		if item.TextEdit != nil {
			span := SpanFromRange(item.TextEdit.Range, generatedText)
			srcs := m.ToSourceRanges(span, mapping.CapCompletion)
			if len(srcs) == 0 {
				continue
			}
			for _, src := range srcs {
				translated := item
				translated.TextEdit = &protocol.TextEdit{
					Range:   RangeFromSpan(src, sourceText),
					NewText: item.TextEdit.NewText,
				}
				out.Items = append(out.Items, enrichItem(translated, data))
			}
			continue
		}
		out.Items = append(out.Items, enrichItem(item, data))
	}
	return out
}

func enrichItem(item protocol.CompletionItem, data *tagdata.Data) protocol.CompletionItem {
	visible, meta := decodeItemData(item.Documentation)
	item.Documentation = visible

	if meta != nil {
		switch meta.Kind {
		case ItemComponentTag:
			item.Kind = protocol.KindClass
			item.SortText = sortGroupComponent + item.Label
		case ItemComponentProp:
			item.Kind = protocol.KindProperty
			item.SortText = sortGroupComponent + item.Label
		case ItemComponentEvent:
			item.Kind = protocol.KindEvent
			item.SortText = sortGroupComponent + item.Label
		}
		return item
	}

	if data == nil {
		return item
	}
	switch {
	case data.IsStructuralDirective(item.Label):
		item.SortText = sortGroupStructural + item.Label
	case data.IsDirective(item.Label):
		item.SortText = sortGroupDirective + item.Label
	case item.Kind == protocol.KindField || item.Kind == protocol.KindProperty:
		item.SortText = sortGroupAttribute + item.Label
	default:
		if item.SortText == "" {
			item.SortText = sortGroupDefault + item.Label
		}
	}
	return item
}
