package jira

// Issue is the subset of ticket data the viewer and formatters use
type Issue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Steps   string `json:"steps,omitempty"`
}
