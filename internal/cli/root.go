// Package cli implements the ttadmin command-line interface: the
// non-interactive verbs over the backend, the terminal UI launcher and the
// stub backend server.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ttadmin/internal/api"
	"github.com/mesh-intelligence/ttadmin/internal/config"
	"github.com/mesh-intelligence/ttadmin/internal/paths"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks malformed command lines.
var errUsage = errors.New("usage")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	baseURL   string
	jsonMode  bool
}

// session is what one invocation of the root command shares with its
// subcommands: the flags, the loaded configuration and the logger.
type session struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "ttadmin" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	s := &session{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "ttadmin",
		Short: "Administer locations, transportations and routes",
		Long: "ttadmin manages the locations and transportations of a travel-planning\n" +
			"backend and searches routes between locations, from the command line\n" +
			"or an interactive terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.PersistentFlags().StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/ttadmin)")
	root.PersistentFlags().StringVar(&s.flags.baseURL, "base-url", "", "backend base URL, overrides base_url")
	root.PersistentFlags().BoolVar(&s.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(s),
		newConfigCmd(s),
		newListCmd(s),
		newGetCmd(s),
		newSetCmd(s),
		newDeleteCmd(s),
		newCodesCmd(s),
		newRoutesCmd(s),
		newServeCmd(s),
		newExportCmd(s),
		newImportCmd(s),
		newUICmd(s),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error onto exitUserError for problems the caller can fix
// (bad input, unknown ids, rejected requests) and exitSysError otherwise.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return exitUserError
		}
		return exitSysError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

var userErrors = []error{
	errUsage,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrUnknownResource,
	types.ErrInvalidWindow,
	types.ErrInvalidTransportationType,
	types.ErrInvalidWeekday,
	types.ErrInvalidDate,
	types.ErrSameEndpoints,
	types.ErrSearchNotReady,
	types.ErrNoSelection,
	types.ErrBaseURLEmpty,
	types.ErrBaseURLInvalid,
	types.ErrPageSizeInvalid,
	types.ErrLookupPageSize,
	types.ErrNotifyTimeoutInvalid,
	types.ErrLogLevelUnknown,
}

// load resolves the config directory, reads config.yaml and builds the
// command logger. Flags override file and environment values.
func (s *session) load(cmd *cobra.Command) error {
	dir, err := paths.ResolveConfigDir(s.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	overrides := map[string]any{}
	if s.flags.baseURL != "" {
		overrides[config.KeyBaseURL] = s.flags.baseURL
	}
	cfg, err := config.Load(dir, overrides)
	if err != nil {
		return err
	}
	s.configDir = dir
	s.cfg = cfg
	s.logger = NewCommandLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

// client builds an API client from the loaded configuration. CLI verbs
// print failures themselves, so the notification sink stays the default
// no-op unless opts replace it.
func (s *session) client(opts ...api.Option) (*api.Client, error) {
	base := []api.Option{
		api.WithTimeout(s.cfg.RequestTimeout),
		api.WithLogger(s.logger),
	}
	return api.NewClient(s.cfg.BaseURL, append(base, opts...)...)
}

// usageArgs wraps a cobra argument validator so its failures map to
// exitUserError.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}
