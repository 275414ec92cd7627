package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "TaskPanel API",
		Version:     "v1",
		Description: "Task instance details for the workflow dashboard",
		Endpoints: []endpointInfo{
			{"/api/v1/tasks", []string{"GET"}, "List root tasks with their children"},
			{"/api/v1/tasks/{tid}", []string{"GET"}, "Single task with instances and children"},
			{"/api/v1/tasks/{tid}/runs/{rid}/details", []string{"GET"}, "Details panel for one task instance"},
			{"/api/v1/tally", []string{"POST"}, "Tally a mapped-state count mapping"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
			{"/tasks/{tid}/runs/{rid}", []string{"GET"}, "Details panel as an HTML fragment"},
		},
	})
}
