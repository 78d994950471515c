package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/embedls/pkg/document"
	"github.com/walteh/embedls/pkg/splitter"
	"github.com/walteh/embedls/pkg/virtual"
	"gitlab.com/tozd/go/errors"
)

func newInspectCommand() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Dump the virtual documents and source maps generated for a composite document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := afero.NewOsFs()
			path := args[0]

			cfg, _, err := loadProject(ctx, fs)
			if err != nil {
				return err
			}

			content, err := afero.ReadFile(fs, path)
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}

			split := splitter.NewBlockSplitter()
			split.CustomBlockLangs = cfg.CustomBlockLangs()

			doc := document.NewDocument(path, "vue", 1, string(content))
			sections, err := split.Split(ctx, doc)
			if err != nil {
				return err
			}

			snap := virtual.NewGenerator(virtual.DefaultPlugins()...).Generate(ctx, doc, sections)
			for _, vdoc := range snap.Documents() {
				cmd.Printf("virtual document %s (lang=%s, generation=%s)\n", vdoc.Name, vdoc.LanguageID, vdoc.Generation)
				if m, ok := snap.Map(vdoc.Name); ok {
					for _, e := range m.Entries() {
						cmd.Printf("  source %s -> generated %s [%s]\n", e.Source, e.Generated, e.Capabilities)
					}
				}
				if parent, ok := snap.Parent(vdoc.Name); ok {
					cmd.Printf("  parent: %s\n", parent.Name)
				}
				if showText {
					cmd.Printf("---\n%s\n---\n", vdoc.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "also print the generated text")
	return cmd
}
