package cli

import "github.com/spf13/cobra"

func newDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete an entity by ID",
		Long: `Delete removes an entity. The backend refuses to delete a location that
is still used by a transportation.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			k, err := kindFor(client, args[0])
			if err != nil {
				return err
			}
			return k.remove(cmd.Context(), s, cmd.OutOrStdout(), args[1])
		},
	}
}
