package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	embedlsdebug "github.com/walteh/embedls/pkg/debug"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "embedls",
		Short: "Language tooling for composite documents with embedded languages",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	ctx := context.Background()
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, PartsExclude: []string{"time"}}).
			Level(level).
			Hook(embedlsdebug.CustomTimeHook{WithColor: true}).
			Hook(embedlsdebug.CustomCallerHook{WithColor: true})
		cmd.SetContext(logger.WithContext(cmd.Context()))
	}

	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newDiagnosticsCommand())
	rootCmd.AddCommand(newInspectCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
