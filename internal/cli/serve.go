package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/paths"
	"github.com/mesh-intelligence/ttadmin/internal/sqlite"
	"github.com/mesh-intelligence/ttadmin/internal/stubapi"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

type serveFlags struct {
	addr     string
	database string
	seed     bool
}

func newServeCmd(s *session) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stub REST backend",
		Long: `Serve runs a local implementation of the backend REST API on SQLite, with
demo locations and transportations seeded into an empty database. Point
base_url at it to try the CLI verbs and the terminal UI.

Example:
  ttadmin serve --addr :8080
  ttadmin serve --database :memory:`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.serveConfig(cmd, f)
			if err != nil {
				return err
			}

			backend := sqlite.NewBackend()
			if err := backend.Attach(cfg); err != nil {
				return fmt.Errorf("attach backend: %w", err)
			}
			defer backend.Detach()

			gin.SetMode(gin.ReleaseMode)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.logger.Info("stub backend starting", "addr", cfg.Addr, "database", cfg.Database, "seed", cfg.Seed)
			return stubapi.New(backend, s.logger).Run(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default: serve.addr)")
	cmd.Flags().StringVar(&f.database, "database", "", "SQLite database file or :memory: (default: serve.database)")
	cmd.Flags().BoolVar(&f.seed, "seed", true, "seed demo data into an empty database (default: serve.seed)")
	return cmd
}

// serveConfig merges the serve flags over the serve section of config.yaml.
func (s *session) serveConfig(cmd *cobra.Command, f serveFlags) (types.ServeConfig, error) {
	cfg := s.cfg.Serve
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
	db, err := paths.ResolveDatabase(f.database, cfg.Database)
	if err != nil {
		return cfg, fmt.Errorf("resolve database: %w", err)
	}
	cfg.Database = db
	return cfg, nil
}
