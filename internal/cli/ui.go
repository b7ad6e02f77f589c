package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/api"
	"github.com/mesh-intelligence/ttadmin/internal/notify"
	"github.com/mesh-intelligence/ttadmin/internal/tui"
)

// notifyBacklog bounds the toast queue; older messages are dropped first.
const notifyBacklog = 16

func newUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal UI",
		Long: `UI opens a full-screen interface with three tabs: locations and
transportations as paginated grids with add, edit and delete, and a route
search. Logs go to log_file since the terminal belongs to the interface.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := NewFileLogger(s.cfg.LogFile, s.cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closeLog()

			queue := notify.NewQueue(notifyBacklog)
			client, err := s.client(
				api.WithSink(notify.Multi{queue, notify.Logger{Log: logger}}),
				api.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			err = tui.Run(cmd.Context(), tui.Options{
				Client:         client,
				Notifications:  queue,
				NotifyTimeout:  s.cfg.NotifyTimeout,
				PageSize:       s.cfg.PageSize,
				LookupPageSize: s.cfg.LookupPageSize,
				Logger:         logger,
			})
			if err != nil {
				return fmt.Errorf("terminal ui: %w", err)
			}
			return nil
		},
	}
}
