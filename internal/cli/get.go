package cli

import "github.com/spf13/cobra"

func newGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one entity by ID",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			k, err := kindFor(client, args[0])
			if err != nil {
				return err
			}
			return k.get(cmd.Context(), s, cmd.OutOrStdout(), args[1])
		},
	}
}
