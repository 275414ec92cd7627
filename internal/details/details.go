// Package details builds the metadata panel shown for one task instance:
// status, per-state summary, identifiers, duration and timestamps.
package details

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/me/taskpanel/internal/logging"
	"github.com/me/taskpanel/internal/tally"
	"github.com/me/taskpanel/pkg/model"
)

// Timestamp is a panel time with its absolute and relative renderings.
type Timestamp struct {
	Time     time.Time `json:"time"`
	ISO      string    `json:"iso"`
	Relative string    `json:"relative"`
}

// Panel is the view model of the details panel. Optional rows are empty
// (or nil) when they should not be shown.
type Panel struct {
	Tooltip     string `json:"tooltip,omitempty"`
	MappedLine  string `json:"mapped_line,omitempty"`
	StatusLabel string `json:"status_label"`

	State      model.TaskState `json:"state"`
	StateLabel string          `json:"state_label"`

	Summary []tally.Entry `json:"summary"`

	TaskIDTitle string `json:"task_id_title"`
	TaskID      string `json:"task_id"`
	RunID       string `json:"run_id"`
	Operator    string `json:"operator,omitempty"`

	DurationLabel string        `json:"duration_label"`
	Duration      time.Duration `json:"duration_ns"`
	DurationText  string        `json:"duration"`

	Started *Timestamp `json:"started,omitempty"`
	Ended   *Timestamp `json:"ended,omitempty"`
}

// Builder turns a task and one of its instances into a Panel.
type Builder struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the time source used for running durations and
// relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder.
func NewBuilder(logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		now:    time.Now,
		logger: logging.Component(logger, "details"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the panel. operator overrides task.Operator when non-empty.
// It fails only when the instance's mapped states cannot be tallied.
func (b *Builder) Build(task *model.Task, ti *model.TaskInstance, operator string) (*Panel, error) {
	summary, err := tally.Tally(task, ti)
	if err != nil {
		return nil, fmt.Errorf("tally %s/%s: %w", task.ID, ti.RunID, err)
	}
	b.logger.Debug("tally", "task_id", task.ID, "run_id", ti.RunID,
		"group", task.IsGroup(), "mapped", task.IsMapped, "total", summary.Total)

	now := b.now()
	isGroup := task.IsGroup()
	overall := ""
	if isGroup || task.IsMapped {
		overall = "Overall "
	}

	p := &Panel{
		Tooltip:       task.Tooltip,
		StatusLabel:   overall + "Status:",
		State:         ti.State,
		StateLabel:    stateLabel(ti.State),
		Summary:       summary.Entries,
		TaskIDTitle:   "Task Id: ",
		TaskID:        ti.TaskID,
		RunID:         ti.RunID,
		Operator:      task.Operator,
		DurationLabel: overall + "Duration:",
	}
	if isGroup {
		p.TaskIDTitle = "Task Group Id: "
	}
	if p.TaskID == "" {
		p.TaskID = task.ID
	}
	if operator != "" {
		p.Operator = operator
	}
	if !isGroup && ti.MappedStates != nil && summary.Total > 0 {
		p.MappedLine = MappedLine(summary.Total)
	}

	p.Duration = Duration(ti.StartDate, ti.EndDate, now)
	p.DurationText = FormatDuration(p.Duration)

	if start, ok := ti.StartDate.Get(); ok {
		p.Started = timestamp(start, now)
	}
	if end, ok := ti.EndDate.Get(); ok && ti.State.IsFinal() {
		p.Ended = timestamp(end, now)
	}
	return p, nil
}

// MappedLine renders the "N Tasks Mapped" row.
func MappedLine(n int) string {
	if n == 1 {
		return "1 Task Mapped"
	}
	return fmt.Sprintf("%d Tasks Mapped", n)
}

func stateLabel(s model.TaskState) string {
	if s.IsNone() {
		return "no status"
	}
	return s.String()
}

func timestamp(t, now time.Time) *Timestamp {
	return &Timestamp{
		Time:     t,
		ISO:      t.Format(time.RFC3339),
		Relative: humanize.RelTime(t, now, "ago", "from now"),
	}
}
