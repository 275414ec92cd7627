package cli

import (
	"log/slog"

	"github.com/me/taskpanel/internal/config"
	"github.com/me/taskpanel/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// NewRootCmd creates the root cobra command for the taskpanel CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskpanel",
		Short: "Task instance details for the workflow dashboard",
		Long:  "taskpanel shows the status, state summary, identifiers and timing of a task instance.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", config.DefaultServerURL(), "Panel server URL (or "+config.ServerEnv+" env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newDetailsCmd(),
		newRenderCmd(),
		newTallyCmd(),
	)

	return root
}
