package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/config"
	"github.com/abhisek/tutorly/internal/store"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "tutorly",
	Short: "Practice problems with an on-demand tutor",
	Long:  "Tutorly serves practice problems with hints, worked solutions, answer checking and a tutor you can ask questions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Database URL or SQLite path (overrides TUTORLY_DATABASE_URL)")
	flags.String("log-file", "", "Write logs of the terminal client to this file")
	_ = v.BindPFlag("database_url", flags.Lookup("db"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	return config.Load(v)
}

// localDatabaseURL returns the configured database, falling back to the
// per-user SQLite file so terminal progress survives restarts.
func localDatabaseURL(cfg *config.Config) (string, error) {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL, nil
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return "", fmt.Errorf("resolve DB path: %w", err)
	}
	return p, nil
}
