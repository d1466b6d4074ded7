package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

var (
	// RunPath is the path definition of the endpoint Run.
	RunPath = PipelinePath + "/run"
	// StatusPath is the path definition of the endpoint Status.
	StatusPath = PipelinePath + "/status"
)

const (
	// StatusSubmitted is the status of a run just submitted.
	StatusSubmitted = "submitted"
	// StatusUnknown is the status of a pipeline never run, or of a run without status yet.
	StatusUnknown = "unknown"
)

// RunResponse is the response structure for the Run endpoint
type RunResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// StatusResponse is the response structure for the Status endpoint.
// Tasks are keyed by task name and Nodes by pipeline node id.
type StatusResponse struct {
	RunID      string            `json:"run_id,omitempty"`
	Status     string            `json:"status"`
	Tasks      map[string]string `json:"tasks,omitempty"`
	Nodes      map[string]string `json:"nodes,omitempty"`
	CreatedAt  *time.Time        `json:"created_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

func (cli client) Run(ctx context.Context, id string) (RunResponse, error) {
	var res RunResponse
	err := cli.do(ctx, http.MethodPost, pipelinePath(id)+"/run", nil, fmt.Sprintf("pipeline %s", id), &res)
	return res, err
}

func (cli client) Status(ctx context.Context, id string) (StatusResponse, error) {
	var res StatusResponse
	err := cli.do(ctx, http.MethodGet, pipelinePath(id)+"/status", nil, fmt.Sprintf("pipeline %s", id), &res)
	return res, err
}
