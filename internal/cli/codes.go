package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/lookup"
)

func newCodesCmd(s *session) *cobra.Command {
	var (
		all  bool
		size int
	)
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List location codes",
		Long: `Codes prints location codes one per line, the same list the terminal UI
offers when choosing an origin or destination. Without --all only the first
page is printed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			if size == 0 {
				size = s.cfg.LookupPageSize
			}
			loader := lookup.NewLoader[string](client.Locations().Codes,
				lookup.WithPageSize(size),
				lookup.WithLogger(s.logger),
			)
			for {
				if err := loader.LoadMore(cmd.Context()); err != nil {
					return fmt.Errorf("load codes: %w", err)
				}
				if !all || !loader.Snapshot().HasMore {
					break
				}
			}

			snap := loader.Snapshot()
			if s.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), snap.Options)
			}
			for _, code := range snap.Options {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "page through every code")
	cmd.Flags().IntVar(&size, "size", 0, "codes per request (default: lookup_page_size)")
	return cmd
}
