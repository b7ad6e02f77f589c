package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/sqlite"
)

func newExportCmd(s *session) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the stub backend database to JSONL files",
		Long: `Export writes every location and transportation of the stub backend
database to locations.jsonl and transportations.jsonl in dir. The files
are plain form data and can be kept under version control.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.serveConfig(cmd, f)
			if err != nil {
				return err
			}
			cfg.Seed = false

			backend := sqlite.NewBackend()
			if err := backend.Attach(cfg); err != nil {
				return fmt.Errorf("attach backend: %w", err)
			}
			defer backend.Detach()

			if err := backend.Export(args[0]); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			s.logger.Debug("exported stub database", "database", cfg.Database, "dir", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", cfg.Database, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&f.database, "database", "", "SQLite database file (default: serve.database)")
	return cmd
}

func newImportCmd(s *session) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Load JSONL files into the stub backend database",
		Long: `Import reads locations.jsonl and transportations.jsonl from dir and
creates each record through the stub backend's validation. Records that
fail validation, such as a location code already in use, are skipped and
counted.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.serveConfig(cmd, f)
			if err != nil {
				return err
			}
			cfg.Seed = false

			backend := sqlite.NewBackend()
			if err := backend.Attach(cfg); err != nil {
				return fmt.Errorf("attach backend: %w", err)
			}
			defer backend.Detach()

			res, err := backend.Import(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			s.logger.Debug("imported into stub database", "database", cfg.Database,
				"locations", res.Locations, "transportations", res.Transportations, "skipped", res.Skipped)

			out := cmd.OutOrStdout()
			if s.flags.jsonMode {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "Imported %d locations and %d transportations (%d skipped)\n",
				res.Locations, res.Transportations, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.database, "database", "", "SQLite database file (default: serve.database)")
	return cmd
}
