package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/embedls/pkg/config"
)

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "embedls.hcl", []byte(content), 0o644))
	return fs
}

func TestLoad(t *testing.T) {
	fs := writeConfig(t, `
documents  = ["src/**/*.vue", "*.vue"]
components = ["MyButton", "AppDialog"]

custom_block "docs" {
  lang = "md"
}

custom_block "i18n" {
  lang = "json"
}
`)

	cfg, err := config.Load(fs, "embedls.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.vue", "*.vue"}, cfg.Documents)
	assert.Equal(t, []string{"MyButton", "AppDialog"}, cfg.Components)
	assert.Equal(t, map[string]string{
		"docs": "md",
		"i18n": "json",
	}, cfg.CustomBlockLangs())
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := config.Load(fs, "embedls.hcl")
	require.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	fs := writeConfig(t, `documents = [`)
	_, err := config.Load(fs, "embedls.hcl")
	require.Error(t, err)
}

func TestValidateAccumulates(t *testing.T) {
	cfg := &config.Config{
		Documents: []string{"[", "**/*.vue"},
		CustomBlocks: []*config.CustomBlockEntry{
			{Type: "", Lang: ""},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document pattern")
	assert.Contains(t, err.Error(), "type must not be empty")
}

func TestValidateEmptyLangInHCL(t *testing.T) {
	fs := writeConfig(t, `
custom_block "docs" {
  lang = ""
}
`)
	_, err := config.Load(fs, "embedls.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a lang")
}

func TestMatchesDocument(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		path string
		want bool
	}{
		{"Widget.vue", true},
		{"src/components/Widget.vue", true},
		{"src/main.ts", false},
		{"Widget.vue.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.MatchesDocument(tt.path))
		})
	}
}
