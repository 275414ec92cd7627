// Package render writes a details panel for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/me/taskpanel/internal/details"
)

// Text writes p as plain text, one panel row per line. Blank lines separate
// the status, identifier and timing blocks.
func Text(w io.Writer, p *details.Panel) error {
	var b strings.Builder

	if p.Tooltip != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Tooltip)
	}
	if p.MappedLine != "" {
		fmt.Fprintf(&b, "%s\n", p.MappedLine)
	}
	fmt.Fprintf(&b, "%s %s\n", p.StatusLabel, p.StateLabel)
	for _, e := range p.Summary {
		fmt.Fprintf(&b, "  %s: %d\n", e.State, e.Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s%s\n", p.TaskIDTitle, p.TaskID)
	fmt.Fprintf(&b, "Run Id: %s\n", p.RunID)
	if p.Operator != "" {
		fmt.Fprintf(&b, "Operator: %s\n", p.Operator)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n", p.DurationLabel, p.DurationText)
	if p.Started != nil {
		fmt.Fprintf(&b, "Started: %s (%s)\n", p.Started.ISO, p.Started.Relative)
	}
	if p.Ended != nil {
		fmt.Fprintf(&b, "Ended: %s (%s)\n", p.Ended.ISO, p.Ended.Relative)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
