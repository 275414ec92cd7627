// Package tally aggregates task instance states into an ordered per-state
// count summary for the details panel.
package tally

import (
	"fmt"
	"math"
	"sort"

	"github.com/me/taskpanel/pkg/model"
)

// Entry is one (state, count) row of a summary.
type Entry struct {
	State model.TaskState `json:"state"`
	Count int             `json:"count"`
}

// Summary is the ordered, zero-suppressed result of a tally.
type Summary struct {
	Entries []Entry `json:"entries"`
	// Total is the number of tallied records.
	Total int `json:"total"`
}

// Counts holds one counter per state, indexed by TaskState.
// Every state is present from the start; counters only grow.
type Counts [model.NumStates]int

// Add increments the counter of s by n. It reports false, leaving the
// counters unchanged, when s is not a known state, n is negative, or the
// counter or the overall total would overflow.
func (c *Counts) Add(s model.TaskState, n int) bool {
	if int(s) >= model.NumStates || n < 0 {
		return false
	}
	if n > math.MaxInt-c[s] || n > math.MaxInt-c.total() {
		return false
	}
	c[s] += n
	return true
}

func (c *Counts) total() int {
	t := 0
	for _, n := range c {
		t += n
	}
	return t
}

// Summary emits non-zero counters in canonical state order. Entries is
// never nil.
func (c *Counts) Summary() Summary {
	sum := Summary{Entries: []Entry{}}
	for _, s := range model.CanonicalStateOrder {
		if n := c[s]; n > 0 {
			sum.Entries = append(sum.Entries, Entry{State: s, Count: n})
			sum.Total += n
		}
	}
	return sum
}

// Group tallies the children of a task group. Each child contributes the
// state of its instance for runID; children without such an instance
// contribute nothing.
func Group(children []*model.Task, runID string) Summary {
	var c Counts
	for _, child := range children {
		if child == nil {
			continue
		}
		if ti := child.InstanceFor(runID); ti != nil {
			c.Add(ti.State, 1)
		}
	}
	return c.Summary()
}

// Mapped tallies a state label to count mapping of a mapped task. The empty
// label counts as no_status. Unknown labels and negative counts are rejected
// with a validation error and no partial summary.
func Mapped(states map[string]int) (Summary, error) {
	var c Counts
	var details []model.FieldError

	// Sorted keys keep the error details stable.
	labels := make([]string, 0, len(states))
	for label := range states {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		n := states[label]
		s, err := model.ParseTaskState(label)
		if err != nil {
			details = append(details, model.FieldError{
				Field:   "mapped_states." + label,
				Message: "unknown task state",
			})
			continue
		}
		if n < 0 {
			details = append(details, model.FieldError{
				Field:   "mapped_states." + label,
				Message: fmt.Sprintf("negative count %d", n),
			})
			continue
		}
		if !c.Add(s, n) {
			details = append(details, model.FieldError{
				Field:   "mapped_states." + label,
				Message: "count overflows the tally",
			})
		}
	}
	if len(details) > 0 {
		return Summary{}, model.NewValidationError("invalid mapped states", details...)
	}
	return c.Summary(), nil
}

// Tally picks the mode for a task: group mode for groups, mapped mode for
// mapped tasks whose instance carries mapped states, otherwise an empty summary.
func Tally(task *model.Task, ti *model.TaskInstance) (Summary, error) {
	switch {
	case task.IsGroup():
		return Group(task.Children, ti.RunID), nil
	case task.IsMapped && ti.MappedStates != nil:
		return Mapped(ti.MappedStates)
	default:
		return Summary{Entries: []Entry{}}, nil
	}
}
