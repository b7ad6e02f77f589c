package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

func newListCmd(s *session) *cobra.Command {
	var (
		page int
		size int
		sort string
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List one page of a resource",
		Long: `List fetches one page of locations or transportations from the backend.

Pages are 1-based on the command line. The page size defaults to page_size
from config.yaml.

Example:
  ttadmin list locations
  ttadmin list transportations --page 2 --size 10
  ttadmin list locations --sort name,asc --json`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			k, err := kindFor(client, args[0])
			if err != nil {
				return err
			}
			if size == 0 {
				size = s.cfg.PageSize
			}
			win := types.PageWindow{Index: page - 1, Size: size}
			return k.list(cmd.Context(), s, cmd.OutOrStdout(), win, sort)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "rows per page (default: page_size)")
	cmd.Flags().StringVar(&sort, "sort", types.DefaultListSort, "sort as field,direction")
	return cmd
}
