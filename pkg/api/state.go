package api

import (
	"time"
)

// RunState represents the normalized state of a run.
type RunState struct {
	RunID      string      `json:"run_id"`
	Phase      Phase       `json:"phase"`
	Tasks      []TaskState `json:"tasks,omitempty"`
	CreatedAt  *time.Time  `json:"createdAt,omitempty"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// TaskState represents task state.
type TaskState struct {
	Name   string `json:"name"`
	NodeID string `json:"node_id,omitempty"`
	Phase  Phase  `json:"phase"`
}

// TaskPhases returns the task phases keyed by task name.
func (s RunState) TaskPhases() map[string]string {
	res := make(map[string]string, len(s.Tasks))
	for _, t := range s.Tasks {
		res[t.Name] = string(t.Phase)
	}
	return res
}
