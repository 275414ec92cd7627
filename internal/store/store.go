package store

import (
	"context"

	"github.com/me/taskpanel/pkg/model"
)

// Store defines the read side the details panel is served from.
type Store interface {
	// PutTask upserts a task row and replaces its instances. Children are
	// not written; parentID links the task into its group.
	PutTask(ctx context.Context, task *model.Task, parentID string, position int) error

	// GetTask returns the task with its instances and its full children tree,
	// or nil when it does not exist.
	GetTask(ctx context.Context, id string) (*model.Task, error)

	// ListTasks returns the root tasks, each with its children tree.
	ListTasks(ctx context.Context) ([]*model.Task, error)

	// Ping checks the database is reachable and migrated.
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
