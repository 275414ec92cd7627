package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/me/taskpanel/internal/tally"
	"github.com/spf13/cobra"
)

func newTallyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tally <state=count>...",
		Short: "Tally mapped instance counts by state",
		Long: `Tally mapped instance counts and print them in dashboard order.
An empty state ("=2") counts instances without a state.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states := make(map[string]int, len(args))
			for _, arg := range args {
				label, num, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid argument %q: expected state=count", arg)
				}
				n, err := strconv.Atoi(num)
				if err != nil {
					return fmt.Errorf("invalid count in %q: %w", arg, err)
				}
				states[label] += n
			}

			summary, err := tally.Mapped(states)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range summary.Entries {
				fmt.Fprintf(out, "%s: %d\n", e.State, e.Count)
			}
			fmt.Fprintf(out, "total: %d\n", summary.Total)
			return nil
		},
	}
}
