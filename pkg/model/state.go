package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TaskState represents the lifecycle state of a task instance.
// The zero value, StateNone, means the instance has no state yet.
type TaskState uint8

const (
	StateNone TaskState = iota
	StateRemoved
	StateScheduled
	StateQueued
	StateRunning
	StateSuccess
	StateRestarting
	StateFailed
	StateUpForRetry
	StateUpForReschedule
	StateUpstreamFailed
	StateSkipped
	StateDeferred
	StateSensing

	numStates
)

// NumStates is the size of the closed state set.
const NumStates = int(numStates)

// NoStatusLabel is the label used for StateNone.
const NoStatusLabel = "no_status"

var stateLabels = [numStates]string{
	StateNone:            NoStatusLabel,
	StateRemoved:         "removed",
	StateScheduled:       "scheduled",
	StateQueued:          "queued",
	StateRunning:         "running",
	StateSuccess:         "success",
	StateRestarting:      "restarting",
	StateFailed:          "failed",
	StateUpForRetry:      "up_for_retry",
	StateUpForReschedule: "up_for_reschedule",
	StateUpstreamFailed:  "upstream_failed",
	StateSkipped:         "skipped",
	StateDeferred:        "deferred",
	StateSensing:         "sensing",
}

// CanonicalStateOrder is the display order of every state, no_status included.
// Enum values are declared in this order, so iterating 0..NumStates-1 is equivalent.
var CanonicalStateOrder = func() [numStates]TaskState {
	var order [numStates]TaskState
	for i := range order {
		order[i] = TaskState(i)
	}
	return order
}()

// String returns the label of the task state.
func (s TaskState) String() string {
	if s >= numStates {
		return fmt.Sprintf("TaskState(%d)", uint8(s))
	}
	return stateLabels[s]
}

// IsNone reports whether s is the absent state.
func (s TaskState) IsNone() bool {
	return s == StateNone
}

// IsFinal returns true if the instance has finished and its end date is meaningful.
func (s TaskState) IsFinal() bool {
	switch s {
	case StateSuccess, StateFailed, StateUpstreamFailed, StateSkipped:
		return true
	}
	return false
}

// UnknownStateError is returned when a label is not part of the state set.
type UnknownStateError struct {
	Label string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown task state %q", e.Label)
}

// ParseTaskState converts a label into a TaskState.
// The empty label and "no_status" both map to StateNone.
func ParseTaskState(label string) (TaskState, error) {
	if label == "" {
		return StateNone, nil
	}
	for i, l := range stateLabels {
		if l == label {
			return TaskState(i), nil
		}
	}
	return StateNone, &UnknownStateError{Label: label}
}

// MarshalText implements encoding.TextMarshaler.
func (s TaskState) MarshalText() ([]byte, error) {
	if s >= numStates {
		return nil, fmt.Errorf("invalid task state %d", uint8(s))
	}
	return []byte(stateLabels[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TaskState) UnmarshalText(b []byte) error {
	st, err := ParseTaskState(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// UnmarshalJSON accepts a label or null.
func (s *TaskState) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = StateNone
		return nil
	}
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return fmt.Errorf("task state: %w", err)
	}
	return s.UnmarshalText([]byte(label))
}

// UnmarshalYAML accepts a label or null.
func (s *TaskState) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = StateNone
		return nil
	}
	var label string
	if err := node.Decode(&label); err != nil {
		return fmt.Errorf("task state (line %d): %w", node.Line, err)
	}
	return s.UnmarshalText([]byte(label))
}
