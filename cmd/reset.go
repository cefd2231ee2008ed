package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all practice sessions and events (problems are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbURL, err := localDatabaseURL(cfg)
		if err != nil {
			return err
		}

		st, err := store.Connect(cmd.Context(), dbURL, zerolog.Nop())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		res, err := st.Reset(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions and %d events.\n", res.Sessions, res.Events)
		return nil
	},
}
