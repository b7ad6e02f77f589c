package cli

import "github.com/spf13/cobra"

func newSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <resource> [id] <json>",
		Short: "Create or update an entity",
		Long: `Set creates an entity from a JSON form payload, or updates the entity with
the given ID. An empty ID also creates.

Example:
  ttadmin set locations '{"name":"Heathrow","country":"UK","city":"London","locationCode":"LHR"}'
  ttadmin set transportations 7 '{"originCode":"IST","destinationCode":"LHR","transportationType":"FLIGHT","operatingDays":[1,3,5]}'`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			k, err := kindFor(client, args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 || args[1] == "" {
				return k.create(cmd.Context(), s, cmd.OutOrStdout(), args[len(args)-1])
			}
			return k.update(cmd.Context(), s, cmd.OutOrStdout(), args[1], args[2])
		},
	}
}
