package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// OptionalTime is a timestamp that may be absent.
// The zero value is absent.
type OptionalTime struct {
	t     time.Time
	valid bool
}

// Some returns a present OptionalTime.
func Some(t time.Time) OptionalTime {
	return OptionalTime{t: t, valid: true}
}

// None returns an absent OptionalTime.
func None() OptionalTime {
	return OptionalTime{}
}

// Get returns the timestamp and whether it is present.
func (o OptionalTime) Get() (time.Time, bool) {
	return o.t, o.valid
}

// Present reports whether the timestamp is set.
func (o OptionalTime) Present() bool {
	return o.valid
}

// Or returns the timestamp, or def when absent.
func (o OptionalTime) Or(def time.Time) time.Time {
	if !o.valid {
		return def
	}
	return o.t
}

func (o OptionalTime) String() string {
	if !o.valid {
		return "-"
	}
	return o.t.Format(time.RFC3339)
}

// MarshalJSON encodes an absent time as null.
func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.t)
}

// UnmarshalJSON decodes null or an RFC3339 string.
func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = None()
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*o = Some(t)
	return nil
}

// UnmarshalYAML decodes null, an empty string or an RFC3339 timestamp.
func (o *OptionalTime) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" || node.Value == "" {
		*o = None()
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, node.Value)
	if err != nil {
		return fmt.Errorf("timestamp (line %d): %w", node.Line, err)
	}
	*o = Some(t)
	return nil
}
