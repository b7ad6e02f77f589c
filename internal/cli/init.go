package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/config"
	"github.com/mesh-intelligence/ttadmin/internal/sqlite"
)

func newInitCmd(s *session) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the stub backend database",
		Long: `Init writes a default config.yaml when none exists, then creates the stub
backend database and seeds it with demo data. Running it again is harmless.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.serveConfig(cmd, f)
			if err != nil {
				return err
			}

			backend := sqlite.NewBackend()
			if err := backend.Attach(cfg); err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			if err := backend.Detach(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			out := cmd.OutOrStdout()
			if s.flags.jsonMode {
				return writeJSON(out, map[string]string{
					"config":   config.Path(s.configDir),
					"database": cfg.Database,
				})
			}
			fmt.Fprintln(out, "ttadmin initialized")
			fmt.Fprintf(out, "config:   %s\ndatabase: %s\n", config.Path(s.configDir), cfg.Database)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.database, "database", "", "SQLite database file (default: serve.database)")
	cmd.Flags().BoolVar(&f.seed, "seed", true, "seed demo data into an empty database (default: serve.seed)")
	return cmd
}
