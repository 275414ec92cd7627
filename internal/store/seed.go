package store

import (
	"context"
	"fmt"

	"github.com/me/taskpanel/pkg/model"
)

// Seed writes a task tree into st, parents before children. It returns the
// number of tasks written.
func Seed(ctx context.Context, st Store, tasks []*model.Task) (int, error) {
	n := 0
	var walk func(ts []*model.Task, parentID string) error
	walk = func(ts []*model.Task, parentID string) error {
		for i, t := range ts {
			if err := st.PutTask(ctx, t, parentID, i); err != nil {
				return fmt.Errorf("seed task %s: %w", t.ID, err)
			}
			n++
			if err := walk(t.Children, t.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(tasks, ""); err != nil {
		return n, err
	}
	return n, nil
}
