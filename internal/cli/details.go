package cli

import (
	"fmt"
	"time"

	"github.com/me/taskpanel/internal/details"
	"github.com/me/taskpanel/internal/render"
	"github.com/me/taskpanel/internal/snapshot"
	"github.com/spf13/cobra"
)

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <task_id> <run_id>",
		Short: "Show the details panel of a task instance from the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := client.Details(args[0], args[1])
			if err != nil {
				return fmt.Errorf("get details: %w", err)
			}
			return render.Text(cmd.OutOrStdout(), p)
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		file     string
		operator string
		at       string
	)

	cmd := &cobra.Command{
		Use:   "render --file <snapshot> <task_id> <run_id>",
		Short: "Render the details panel of a task instance from a snapshot file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, runID := args[0], args[1]

			tasks, err := snapshot.LoadFile(file)
			if err != nil {
				return err
			}
			task := snapshot.Find(tasks, taskID)
			if task == nil {
				return fmt.Errorf("task %q not found in %s", taskID, file)
			}
			ti := task.InstanceFor(runID)
			if ti == nil {
				return fmt.Errorf("task %q has no instance for run %q", taskID, runID)
			}

			var opts []details.Option
			if at != "" {
				now, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				opts = append(opts, details.WithClock(func() time.Time { return now }))
			}

			p, err := details.NewBuilder(logger, opts...).Build(task, ti, operator)
			if err != nil {
				return err
			}
			return render.Text(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot file (YAML, or JSON with a .json extension)")
	cmd.Flags().StringVar(&operator, "operator", "", "Operator name to show instead of the snapshot's")
	cmd.Flags().StringVar(&at, "at", "", "Render as of this RFC3339 time instead of now")
	cmd.MarkFlagRequired("file")

	return cmd
}
