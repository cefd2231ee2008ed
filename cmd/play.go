package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/app"
	"github.com/abhisek/tutorly/internal/logger"
	"github.com/abhisek/tutorly/internal/practice"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/tutor"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice problems in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	log := zerolog.Nop()
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		l, closer, err := logger.ToFile(path, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer closer.Close()
		log = l
	}

	dbURL, err := localDatabaseURL(cfg)
	if err != nil {
		return err
	}
	st, err := store.Connect(ctx, dbURL, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if cfg.Seed {
		svc := practice.NewService(st, practice.WithLogger(log))
		if _, err := svc.SeedDefaults(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Could not load the built-in problems:", err)
		}
	}

	events := st.EventRepo()
	responder := tutor.WithLogging(tutor.New(tutor.WithDelay(cfg.TutorDelay)), events, log)

	return app.Run(app.Options{
		Problems: st.ProblemRepo(),
		Events:   events,
		Tutor:    responder,
	})
}
