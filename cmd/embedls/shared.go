package main

import (
	"context"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/embedls/pkg/backend"
	"github.com/walteh/embedls/pkg/config"
	"github.com/walteh/embedls/pkg/lsp"
	"github.com/walteh/embedls/pkg/lsp/protocol"
	"github.com/walteh/embedls/pkg/splitter"
	"github.com/walteh/embedls/pkg/tagdata"
	"gitlab.com/tozd/go/errors"
)

const configFileName = "embedls.hcl"

// loadProject reads the optional project config and builds a server around
// it. Backends are empty in the CLI; the plumbing still splits, generates
// and projects, it just collects no backend results.
func loadProject(ctx context.Context, fs afero.Fs) (*config.Config, *lsp.Server, error) {
	cfg := config.Default()
	if ok, _ := afero.Exists(fs, configFileName); ok {
		loaded, err := config.Load(fs, configFileName)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
		zerolog.Ctx(ctx).Debug().Str("path", configFileName).Msg("loaded project config")
	}

	data, err := tagdata.Load()
	if err != nil {
		return nil, nil, errors.Errorf("loading builtin tag data: %w", err)
	}

	split := splitter.NewBlockSplitter()
	split.CustomBlockLangs = cfg.CustomBlockLangs()

	server := lsp.NewServer(ctx, lsp.Options{
		Splitter:   split,
		Backends:   backend.NewRegistry(),
		TagData:    data,
		Components: cfg.Components,
	})
	return cfg, server, nil
}

// formattingOptionsFor derives tab settings from .editorconfig, falling
// back to two-space indentation.
func formattingOptionsFor(ctx context.Context, path string) protocol.FormattingOptions {
	opts := protocol.FormattingOptions{TabSize: 2, InsertSpaces: true}

	def, err := editorconfig.GetDefinitionForFilename(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("no editorconfig definition, using defaults")
		return opts
	}
	if def.IndentStyle == editorconfig.IndentStyleTab {
		opts.InsertSpaces = false
	}
	if def.TabWidth > 0 {
		opts.TabSize = def.TabWidth
	}
	return opts
}

// openFile loads a file into the server's document store.
func openFile(ctx context.Context, fs afero.Fs, server *lsp.Server, path, languageID string) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Errorf("reading %s: %w", path, err)
	}
	server.DidOpen(ctx, path, languageID, 1, string(content))
	return nil
}
