package events

import (
	"fmt"
	"time"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// EventType type of event
type EventType string

const (
	// TypeRunSubmitted is published once a run has been created on the platform.
	TypeRunSubmitted EventType = "RUN_SUBMITTED"
	// TypeRunStatus is published each time the status of a run is polled.
	TypeRunStatus EventType = "RUN_STATUS"
)

// Event represents a message to publish.
type Event struct {
	Type          EventType
	PipelineID    string
	RunID         string
	CorrelationID string
	Data          interface{}
	Time          time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s for pipeline %s and run %s", e.Type, e.PipelineID, e.RunID)
}

// RunSubmittedData is the expected data type for event with type TypeRunSubmitted
type RunSubmittedData struct {
	RunName      string `json:"run_name"`
	ExperimentID string `json:"experiment_id,omitempty"`
}

// RunStatusData is the expected data type for event with type TypeRunStatus
type RunStatusData struct {
	Phase api.Phase         `json:"phase"`
	Tasks map[string]string `json:"tasks"`
}
