package ui

import (
	"fmt"
	"html/template"
	"io"

	"github.com/me/taskpanel/pkg/model"
)

// stateColors follows the dashboard legend, keyed by state label.
var stateColors = map[string]string{
	"no_status":         "white",
	"removed":           "lightgrey",
	"scheduled":         "tan",
	"queued":            "gray",
	"running":           "lime",
	"success":           "green",
	"restarting":        "violet",
	"failed":            "red",
	"up_for_retry":      "gold",
	"up_for_reschedule": "turquoise",
	"upstream_failed":   "orange",
	"skipped":           "hotpink",
	"deferred":          "mediumpurple",
	"sensing":           "lightseagreen",
}

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"stateColor": func(s model.TaskState) string {
		if c, ok := stateColors[s.String()]; ok {
			return c
		}
		return "white"
	},
	"stateDotClass": func(s model.TaskState) string {
		// Pulsing dot for states that are still moving.
		switch s {
		case model.StateRunning, model.StateRestarting, model.StateUpForRetry, model.StateDeferred, model.StateSensing:
			return "state-dot animate-pulse"
		default:
			return "state-dot"
		}
	},
}

// renderTemplate renders a named template with the given data.
func renderTemplate(w io.Writer, name string, data any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"details": `<div class="flex flex-wrap justify-between" id="task-instance-details">
  <div>
    {{- if .Tooltip}}
    <p>{{.Tooltip}}</p>
    <br>
    {{- end}}
    {{- if .MappedLine}}
    <p class="mapped">{{.MappedLine}}</p>
    {{- end}}
    <div class="flex items-center">
      <strong>{{.StatusLabel}}</strong>
      <span class="{{stateDotClass .State}}" style="background-color: {{stateColor .State}}"></span>
      {{.StateLabel}}
    </div>
    {{- range .Summary}}
    <div class="flex items-center summary" data-state="{{.State}}">
      <span class="{{stateDotClass .State}}" style="background-color: {{stateColor .State}}"></span>
      {{.State}}: {{.Count}}
    </div>
    {{- end}}
    <br>
    <p>{{.TaskIDTitle}}<code class="clipboard">{{.TaskID}}</code></p>
    <p class="whitespace-nowrap">Run Id: <code class="clipboard">{{.RunID}}</code></p>
    {{- if .Operator}}
    <p>Operator: {{.Operator}}</p>
    {{- end}}
    <br>
    <p>{{.DurationLabel}} {{.DurationText}}</p>
    {{- with .Started}}
    <p>Started: <time datetime="{{.ISO}}" title="{{.Relative}}">{{.ISO}}</time></p>
    {{- end}}
    {{- with .Ended}}
    <p>Ended: <time datetime="{{.ISO}}" title="{{.Relative}}">{{.ISO}}</time></p>
    {{- end}}
  </div>
</div>
`,

	"error": `<div class="error" role="alert">{{.}}</div>
`,
}
