// Package snapshot loads task trees and their instances from YAML or JSON
// documents. A snapshot is the dashboard state already fetched from the
// scheduler; nothing here talks to the scheduler itself.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/me/taskpanel/internal/tally"
	"github.com/me/taskpanel/pkg/model"
	"gopkg.in/yaml.v3"
)

// Document is the top-level snapshot layout.
type Document struct {
	Tasks []*model.Task `json:"tasks" yaml:"tasks"`
}

// LoadFile reads a snapshot file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func LoadFile(path string) ([]*model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	tasks, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// Parse decodes a snapshot in the given format ("json" or "yaml") and
// validates it.
func Parse(data []byte, format string) ([]*model.Task, error) {
	var doc Document
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	if err := Validate(doc.Tasks); err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

// Validate checks task ids are present and unique across the tree, every
// instance has a run id, and mapped states tally cleanly. Missing instance
// task ids are filled in from the owning task.
func Validate(tasks []*model.Task) error {
	seen := make(map[string]bool)
	var walk func(ts []*model.Task, path string) error
	walk = func(ts []*model.Task, path string) error {
		for i, t := range ts {
			p := fmt.Sprintf("%s[%d]", path, i)
			if t == nil {
				return fmt.Errorf("%s: empty task", p)
			}
			if t.ID == "" {
				return fmt.Errorf("%s: task id is required", p)
			}
			if seen[t.ID] {
				return fmt.Errorf("%s: duplicate task id %q", p, t.ID)
			}
			seen[t.ID] = true

			runs := make(map[string]bool)
			for j, ti := range t.Instances {
				ip := fmt.Sprintf("%s.instances[%d]", p, j)
				if ti == nil || ti.RunID == "" {
					return fmt.Errorf("%s: run_id is required", ip)
				}
				if runs[ti.RunID] {
					return fmt.Errorf("%s: duplicate run_id %q for task %q", ip, ti.RunID, t.ID)
				}
				runs[ti.RunID] = true
				if ti.TaskID == "" {
					ti.TaskID = t.ID
				} else if ti.TaskID != t.ID {
					return fmt.Errorf("%s: task_id %q does not match task %q", ip, ti.TaskID, t.ID)
				}
				if ti.MappedStates != nil {
					if _, err := tally.Mapped(ti.MappedStates); err != nil {
						return fmt.Errorf("%s: %w", ip, err)
					}
				}
			}
			if err := walk(t.Children, p+".children"); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(tasks, "tasks")
}

// Find returns the task with the given id anywhere in the tree, or nil.
func Find(tasks []*model.Task, id string) *model.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
		if found := Find(t.Children, id); found != nil {
			return found
		}
	}
	return nil
}
