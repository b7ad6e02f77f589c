package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/route"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

func newRoutesCmd(s *session) *cobra.Command {
	var show int
	cmd := &cobra.Command{
		Use:   "routes <origin-code> <destination-code> <date>",
		Short: "Search routes between two locations",
		Long: `Routes asks the backend for itineraries of up to three legs, at least one
of them a flight, operating on the given date (YYYY-MM-DD).

Example:
  ttadmin routes CCIST CCLON 2025-03-14
  ttadmin routes CCIST CCLON 2025-03-14 --show 2`,
		Args: usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			composer := route.NewComposer(client.Locations(), client, s.logger)
			composer.SetOrigin(args[0])
			composer.SetDestination(args[1])
			if err := composer.SetDate(args[2]); err != nil {
				return err
			}
			if err := composer.Search(cmd.Context()); err != nil {
				return fmt.Errorf("search routes: %w", err)
			}

			out := cmd.OutOrStdout()
			if show > 0 {
				if err := composer.Select(show - 1); err != nil {
					return err
				}
				selected, _ := composer.Selected()
				if s.flags.jsonMode {
					return writeJSON(out, selected)
				}
				return writeRoute(out, show, selected)
			}

			state := composer.State()
			if s.flags.jsonMode {
				return writeJSON(out, state.Routes)
			}
			if len(state.Routes) == 0 {
				_, err := fmt.Fprintf(out, "No routes from %s to %s on %s\n", state.OriginCode, state.DestinationCode, state.Date)
				return err
			}
			for i, r := range state.Routes {
				if err := writeRoute(out, i+1, r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&show, "show", 0, "print only route N (1-based)")
	return cmd
}

func writeRoute(w io.Writer, n int, r types.Route) error {
	if _, err := fmt.Fprintf(w, "%d. %s (%d legs)\n", n, route.Summary(r), len(r.Steps)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "   %s\n", route.Timeline(r)); err != nil {
		return err
	}
	for _, step := range r.Steps {
		if _, err := fmt.Fprintf(w, "   %s\n", route.LegLabel(step)); err != nil {
			return err
		}
	}
	return nil
}
