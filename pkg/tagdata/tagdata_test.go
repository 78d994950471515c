package tagdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/tagdata"
)

func TestLoad(t *testing.T) {
	data, err := tagdata.Load()
	require.NoError(t, err)

	img, ok := data.Tags["img"]
	require.True(t, ok)
	assert.True(t, img.Void)
	assert.Contains(t, img.Attributes, "src")

	assert.NotEmpty(t, data.Directives)
	assert.NotEmpty(t, data.StructuralDirectives)
}

func TestIsKnownTag(t *testing.T) {
	data, err := tagdata.Load()
	require.NoError(t, err)

	assert.True(t, data.IsKnownTag("div"))
	assert.True(t, data.IsKnownTag("DIV"))
	assert.False(t, data.IsKnownTag("my-button"))
}

func TestIsDirective(t *testing.T) {
	data, err := tagdata.Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{"v-bind", true},
		{"v-bind:title", true},
		{"v-on:click", true},
		{"v-if", true},
		{"v-bindx", false},
		{"class", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, data.IsDirective(tt.name))
		})
	}
}

func TestIsStructuralDirective(t *testing.T) {
	data, err := tagdata.Load()
	require.NoError(t, err)

	assert.True(t, data.IsStructuralDirective("v-for"))
	assert.True(t, data.IsStructuralDirective("v-else-if"))
	assert.False(t, data.IsStructuralDirective("v-bind"))
	assert.False(t, data.IsStructuralDirective("v-model"))
}
