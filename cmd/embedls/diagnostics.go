package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newDiagnosticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics <file>...",
		Short: "Collect diagnostics for composite documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := afero.NewOsFs()

			_, server, err := loadProject(ctx, fs)
			if err != nil {
				return err
			}

			for _, path := range args {
				if err := openFile(ctx, fs, server, path, "vue"); err != nil {
					return err
				}
				diags, err := server.Diagnostic(ctx, path)
				if err != nil {
					return errors.Errorf("diagnosing %s: %w", path, err)
				}
				for _, d := range diags {
					cmd.Printf("%s:%d:%d: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Message)
				}
				if len(diags) == 0 {
					cmd.Printf("%s: no diagnostics\n", path)
				}
			}
			return nil
		},
	}
}
