// Package config loads the optional embedls.hcl project file: which files
// are composite documents, which languages custom blocks carry, and which
// component names the semantic passes should recognize.
package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

type Config struct {
	// Documents are doublestar glob patterns selecting composite files.
	Documents []string `hcl:"documents,optional"`

	// Components are the resolved component identifiers used for
	// completion recoloring and semantic token reclassification.
	Components []string `hcl:"components,optional"`

	CustomBlocks []*CustomBlockEntry `hcl:"custom_block,block"`
}

// CustomBlockEntry assigns a content language to a custom block type.
type CustomBlockEntry struct {
	Type string `hcl:"type,label"`
	Lang string `hcl:"lang"`
}

// Default is the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Documents: []string{"**/*.vue"},
	}
}

// Load parses an embedls.hcl file.
func Load(fs afero.Fs, path string) (*Config, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing config %s: %w", path, diags)
	}

	cfg := &Config{}
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding config %s: %w", path, diags)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate accumulates every problem instead of stopping at the first.
func (c *Config) Validate() error {
	var result *multierror.Error
	for _, pattern := range c.Documents {
		if !doublestar.ValidatePattern(pattern) {
			result = multierror.Append(result, errors.Errorf("invalid document pattern %q", pattern))
		}
	}
	for _, cb := range c.CustomBlocks {
		if cb.Type == "" {
			result = multierror.Append(result, errors.New("custom_block type must not be empty"))
		}
		if cb.Lang == "" {
			result = multierror.Append(result, errors.Errorf("custom_block %q needs a lang", cb.Type))
		}
	}
	return result.ErrorOrNil()
}

// MatchesDocument reports whether a path is a composite document under the
// configured patterns.
func (c *Config) MatchesDocument(path string) bool {
	for _, pattern := range c.Documents {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// CustomBlockLangs flattens the custom block table for the splitter.
func (c *Config) CustomBlockLangs() map[string]string {
	out := map[string]string{}
	for _, cb := range c.CustomBlocks {
		out[cb.Type] = cb.Lang
	}
	return out
}
