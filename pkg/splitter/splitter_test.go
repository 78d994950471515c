package splitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/diff"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/position"
	"github.com/walteh/embedls/pkg/splitter"
)

const sample = `<template>
  <div>{{ msg }}</div>
</template>

<script lang="ts">
export default {}
</script>

<style lang="scss">
div { color: red; }
</style>

<style>
p { margin: 0; }
</style>

<docs>
# Heading
</docs>
`

func TestSplitSample(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, sample)

	sections, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sections, 5)

	tmpl := sections[0]
	assert.Equal(t, document.SectionTemplate, tmpl.Kind)
	assert.Equal(t, "html", tmpl.LanguageID)
	assert.Equal(t, "\n  <div>{{ msg }}</div>\n", tmpl.Text)
	assert.Equal(t, tmpl.Text, sample[tmpl.Span.Start:tmpl.Span.End])

	script := sections[1]
	assert.Equal(t, document.SectionScript, script.Kind)
	assert.Equal(t, "ts", script.LanguageID)
	assert.Equal(t, 0, script.Index)

	scss := sections[2]
	assert.Equal(t, document.SectionStyle, scss.Kind)
	assert.Equal(t, "scss", scss.LanguageID)
	assert.Equal(t, 0, scss.Index)

	css := sections[3]
	assert.Equal(t, document.SectionStyle, css.Kind)
	assert.Equal(t, "css", css.LanguageID)
	assert.Equal(t, 1, css.Index)

	docs := sections[4]
	assert.Equal(t, document.SectionCustomBlock, docs.Kind)
	assert.Equal(t, "docs", docs.BlockType)
	assert.Equal(t, "docs", docs.LanguageID)
	assert.Equal(t, "\n# Heading\n", docs.Text)
}

func TestSplitCustomBlockLangTable(t *testing.T) {
	s := splitter.NewBlockSplitter()
	s.CustomBlockLangs = map[string]string{"docs": "md"}

	doc := document.NewDocument("Widget.vue", "vue", 1, "<docs>\nhello\n</docs>\n")
	sections, err := s.Split(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	diff.RequireKnownValueEqual(t, document.Section{
		Kind:       document.SectionCustomBlock,
		BlockType:  "docs",
		LanguageID: "md",
		Span:       position.NewSpan(6, 13),
		Text:       "\nhello\n",
	}, sections[0])
}

func TestSplitCustomBlockLangAttr(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, `<docs lang="md">x</docs>`)
	sections, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "md", sections[0].LanguageID)
}

func TestSplitScriptSetup(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, "<script setup>\nconst x = 1\n</script>\n")
	sections, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, document.SectionScriptSetup, sections[0].Kind)
	assert.Equal(t, "js", sections[0].LanguageID)
}

func TestSplitNestedTemplateTags(t *testing.T) {
	text := "<template>\n<template v-if=\"x\">a</template>\n</template>\n"
	doc := document.NewDocument("Widget.vue", "vue", 1, text)
	sections, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "\n<template v-if=\"x\">a</template>\n", sections[0].Text)
}

func TestSplitUnclosedBlock(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, "<template>\nno close\n")
	_, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.Error(t, err)
}

func TestSplitEmptyDocument(t *testing.T) {
	doc := document.NewDocument("Widget.vue", "vue", 1, "")
	sections, err := splitter.NewBlockSplitter().Split(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, sections)
}
