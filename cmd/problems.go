package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/practice"
	"github.com/abhisek/tutorly/internal/store"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Inspect and load problem banks",
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored problems with attempt statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeStore, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		topic, _ := cmd.Flags().GetString("topic")
		problems, err := svc.ListProblems(cmd.Context(), topic)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No problems found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTOPIC\tKIND\tDIFFICULTY\tATTEMPTS\tCORRECT")
		for _, s := range problems {
			p := s.Problem
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
				p.ID, p.Title, p.Topic, p.Kind, p.Difficulty, s.Stats.Attempts, s.Stats.Correct)
		}
		return w.Flush()
	},
}

var problemsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load a JSON problem bank, replacing problems with the same id",
	Long: `Load a JSON problem bank, replacing problems with the same id.

The file must look like {"version": 1, "problems": [...]}. The whole bank is
rejected when it fails the schema or any problem check.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		svc, closeStore, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := svc.Import(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d problems.\n", n)
		return nil
	},
}

func init() {
	problemsListCmd.Flags().String("topic", "", "Only list problems with this topic")

	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsImportCmd)
}

// openService opens the local store and seeds it when configured.
func openService(cmd *cobra.Command) (*practice.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	dbURL, err := localDatabaseURL(cfg)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Connect(cmd.Context(), dbURL, zerolog.Nop())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	svc := practice.NewService(st)
	if cfg.Seed {
		if _, err := svc.SeedDefaults(cmd.Context()); err != nil {
			st.Close()
			return nil, nil, err
		}
	}
	return svc, func() { st.Close() }, nil
}
