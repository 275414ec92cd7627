package model

// TaskInstance is one execution record of a task within a specific run.
type TaskInstance struct {
	TaskID    string       `json:"task_id" yaml:"task_id"`
	RunID     string       `json:"run_id" yaml:"run_id"`
	State     TaskState    `json:"state" yaml:"state"`
	StartDate OptionalTime `json:"start_date" yaml:"start_date"`
	EndDate   OptionalTime `json:"end_date" yaml:"end_date"`

	// MappedStates counts the dynamic instances of a mapped task by state label.
	// An empty label counts instances without a state.
	MappedStates map[string]int `json:"mapped_states,omitempty" yaml:"mapped_states,omitempty"`
}

// Task is a node of the dashboard grid: a plain task, a mapped task, or a
// group whose Children are tasks themselves.
type Task struct {
	ID       string  `json:"id" yaml:"id"`
	Children []*Task `json:"children,omitempty" yaml:"children,omitempty"`
	IsMapped bool    `json:"is_mapped,omitempty" yaml:"is_mapped,omitempty"`
	Tooltip  string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Operator string  `json:"operator,omitempty" yaml:"operator,omitempty"`

	Instances []*TaskInstance `json:"instances" yaml:"instances"`
}

// IsGroup returns true if the task has a children list, even an empty one.
func (t *Task) IsGroup() bool {
	return t.Children != nil
}

// InstanceFor returns the instance belonging to runID, or nil.
func (t *Task) InstanceFor(runID string) *TaskInstance {
	for _, ti := range t.Instances {
		if ti.RunID == runID {
			return ti
		}
	}
	return nil
}
