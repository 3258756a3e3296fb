package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
)

func newRootCmd() *cobra.Command {
	cfg := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "cursortrail",
		Short:         "Cursor highlight and fading trail for presentations",
		Long:          "Draws a highlight ring around the mouse cursor and a short fading trail behind it on every monitor.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return setupLogging(cfg.Log.Level)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewApplication(cmd.Context(), cfg).Run()
		},
	}

	rootCmd.AddCommand(newWindowCmd(cfg))
	rootCmd.AddCommand(newRecordCmd(cfg))

	return rootCmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cursortrail failed")
	}
}
