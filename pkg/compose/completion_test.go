package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/compose"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/mapping"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/tagdata"
)

func TestItemDataRoundTrip(t *testing.T) {
	encoded := compose.EncodeItemData("visible docs", compose.ItemData{
		Kind: compose.ItemComponentProp,
		Args: []string{"foo", "Bar"},
	})
	assert.Contains(t, encoded, "visible docs")

	m := verbatimMap(mapping.EnableAllFeatures())
	list := &protocol.CompletionList{
		Items: []protocol.CompletionItem{{Label: "foo", Documentation: encoded}},
	}
	out := compose.TranslateCompletionList(m, generatedText, sourceText, list, nil)
	require.Len(t, out.Items, 1)
	// the encoding is stripped before the result reaches the caller
	assert.Equal(t, "visible docs", out.Items[0].Documentation)
	assert.Equal(t, protocol.KindProperty, out.Items[0].Kind)
}

func TestCompletionInsertionRangeTranslated(t *testing.T) {
	m := verbatimMap(mapping.EnableAllFeatures())

	list := &protocol.CompletionList{
		Items: []protocol.CompletionItem{
			{
				Label: "msg",
				TextEdit: &protocol.TextEdit{
					Range:   compose.RangeFromSpan(position.NewSpan(2, 5), generatedText),
					NewText: "msg",
				},
			},
		},
	}
	out := compose.TranslateCompletionList(m, generatedText, sourceText, list, nil)
	require.Len(t, out.Items, 1)
	assert.Equal(t, position.NewSpan(12, 15), compose.SpanFromRange(out.Items[0].TextEdit.Range, sourceText))
}

func TestCompletionOutsideMappingDropped(t *testing.T) {
	m := verbatimMap(mapping.CapHover)

	list := &protocol.CompletionList{
		Items: []protocol.CompletionItem{
			{
				Label: "msg",
				TextEdit: &protocol.TextEdit{
					Range:   compose.RangeFromSpan(position.NewSpan(2, 5), generatedText),
					NewText: "msg",
				},
			},
		},
	}
	out := compose.TranslateCompletionList(m, generatedText, sourceText, list, nil)
	assert.Empty(t, out.Items)
}

func TestCompletionSortingGroups(t *testing.T) {
	data, err := tagdata.Load()
	require.NoError(t, err)

	m := verbatimMap(mapping.EnableAllFeatures())
	list := &protocol.CompletionList{
		Items: []protocol.CompletionItem{
			{Label: "v-for"},
			{Label: "v-bind"},
			{Label: "class", Kind: protocol.KindProperty},
			{Label: "MyButton", Documentation: compose.EncodeItemData("", compose.ItemData{Kind: compose.ItemComponentTag, Args: []string{"MyButton"}})},
		},
	}
	out := compose.TranslateCompletionList(m, generatedText, sourceText, list, data)
	require.Len(t, out.Items, 4)

	byLabel := map[string]protocol.CompletionItem{}
	for _, item := range out.Items {
		byLabel[item.Label] = item
	}

	// component-derived completions sort ahead of everything
	assert.Equal(t, protocol.KindClass, byLabel["MyButton"].Kind)
	assert.Less(t, byLabel["MyButton"].SortText, byLabel["class"].SortText)
	// directives group after attributes
	assert.Less(t, byLabel["class"].SortText, byLabel["v-bind"].SortText)
	// structural directives sort last
	assert.Less(t, byLabel["v-bind"].SortText, byLabel["v-for"].SortText)
}
