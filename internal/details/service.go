package details

import (
	"context"
	"fmt"

	"github.com/me/taskpanel/pkg/model"
)

// TaskSource looks up a task tree by id. It returns nil, nil when the task
// does not exist.
type TaskSource interface {
	GetTask(ctx context.Context, id string) (*model.Task, error)
}

// Service resolves a task instance from a TaskSource and builds its panel.
type Service struct {
	source  TaskSource
	builder *Builder
}

// NewService creates a Service.
func NewService(source TaskSource, builder *Builder) *Service {
	return &Service{source: source, builder: builder}
}

// Panel returns the panel for taskID in runID. Missing tasks or instances
// yield a NOT_FOUND *model.APIError.
func (s *Service) Panel(ctx context.Context, taskID, runID string) (*Panel, error) {
	task, err := s.source.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	if task == nil {
		return nil, model.NewNotFoundError("task", taskID)
	}
	ti := task.InstanceFor(runID)
	if ti == nil {
		return nil, model.NewNotFoundError("task instance", taskID+"/"+runID)
	}
	return s.builder.Build(task, ti, "")
}
