package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/me/taskpanel/internal/details"
	"github.com/me/taskpanel/internal/tally"
	"github.com/me/taskpanel/pkg/model"
)

func TestText_Mapped(t *testing.T) {
	p := &details.Panel{
		MappedLine:    "5 Tasks Mapped",
		StatusLabel:   "Overall Status:",
		StateLabel:    "running",
		Summary:       []tally.Entry{{State: model.StateNone, Count: 2}, {State: model.StateSuccess, Count: 3}},
		TaskIDTitle:   "Task Id: ",
		TaskID:        "fanout",
		RunID:         "r1",
		Operator:      "PythonOperator",
		DurationLabel: "Overall Duration:",
		DurationText:  "00:05:00",
		Started:       &details.Timestamp{ISO: "2022-05-01T11:55:00Z", Relative: "5 minutes ago"},
	}

	var buf bytes.Buffer
	if err := Text(&buf, p); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := strings.Join([]string{
		"5 Tasks Mapped",
		"Overall Status: running",
		"  no_status: 2",
		"  success: 3",
		"",
		"Task Id: fanout",
		"Run Id: r1",
		"Operator: PythonOperator",
		"",
		"Overall Duration: 00:05:00",
		"Started: 2022-05-01T11:55:00Z (5 minutes ago)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestText_OptionalRowsOmitted(t *testing.T) {
	p := &details.Panel{
		StatusLabel:   "Status:",
		StateLabel:    "no status",
		TaskIDTitle:   "Task Id: ",
		TaskID:        "t",
		RunID:         "r1",
		DurationLabel: "Duration:",
		DurationText:  "00:00:00",
	}
	var buf bytes.Buffer
	if err := Text(&buf, p); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	for _, absent := range []string{"Operator:", "Started:", "Ended:", "Mapped"} {
		if strings.Contains(out, absent) {
			t.Errorf("output contains %q:\n%s", absent, out)
		}
	}
	if !strings.HasPrefix(out, "Status: no status\n") {
		t.Errorf("output starts with %q", out)
	}
}
