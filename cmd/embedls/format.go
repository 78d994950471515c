package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newFormatCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "format <file>...",
		Short: "Run the multi-pass formatter over composite documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := afero.NewOsFs()

			cfg, server, err := loadProject(ctx, fs)
			if err != nil {
				return err
			}

			for _, path := range args {
				if !cfg.MatchesDocument(path) {
					cmd.PrintErrf("skipping %s: not a composite document under configured patterns\n", path)
					continue
				}
				if err := openFile(ctx, fs, server, path, "vue"); err != nil {
					return err
				}

				edits, err := server.Formatting(ctx, path, formattingOptionsFor(ctx, path))
				if err != nil {
					return errors.Errorf("formatting %s: %w", path, err)
				}
				if len(edits) == 0 {
					cmd.Printf("%s: already formatted\n", path)
					continue
				}

				formatted := edits[0].NewText
				if write {
					if err := afero.WriteFile(fs, path, []byte(formatted), 0o644); err != nil {
						return errors.Errorf("writing %s: %w", path, err)
					}
					cmd.Printf("%s: rewritten\n", path)
				} else {
					cmd.Print(formatted)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place instead of printing")
	return cmd
}
