package common

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	t1 := time.Unix(1577836800, 0)
	t2 := time.Unix(1577845810, 0)

	s := duration(&t1, &t2)
	assert.Equal(t, "2h 30m 10s", s)
	assert.Equal(t, "", duration(nil, &t2))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(progressBarChar, 10)+strings.Repeat(progressBarPlaceholder, 10), progressBar(1, 2))
	assert.Equal(t, "1/1", taskProgression([]api.TaskState{{Phase: "SUCCEEDED"}}))
	assert.Equal(t, "0/1", taskProgression([]api.TaskState{{Phase: api.PhaseRunning}}))
}

func TestNodePhase(t *testing.T) {
	assert.Equal(t, api.Phase(""), nodePhase(nil))
	assert.Equal(t, api.PhaseFailed, nodePhase([]api.TaskState{{Phase: api.PhaseSucceeded}, {Phase: api.PhaseFailed}}))
	assert.Equal(t, api.PhaseRunning, nodePhase([]api.TaskState{{Phase: api.PhaseSucceeded}, {Phase: api.PhaseRunning}}))
	assert.Equal(t, api.PhaseSucceeded, nodePhase([]api.TaskState{{Phase: api.PhaseSucceeded}}))
}

func TestPrintRun(t *testing.T) {
	created := time.Unix(1577836800, 0)
	finished := time.Unix(1577836830, 0)
	p := api.Pipeline{
		ID:   "p1",
		Name: "demo",
		Nodes: []api.PipelineNode{
			{ID: "prep", Label: "Prepare"},
			{ID: "train"},
			{ID: "eval"},
		},
	}
	st := client.StatusResponse{
		RunID:      "r1",
		Status:     "RUNNING",
		Tasks:      map[string]string{"prep": "SUCCEEDED", "train-x1": "RUNNING", "exit-handler": "PENDING"},
		CreatedAt:  &created,
		FinishedAt: &finished,
	}
	state := RunState(st, p.NodeIDs())
	assert.True(t, state.Phase.Is(api.PhaseRunning))

	var buf bytes.Buffer
	PrintRun(&buf, p, state, PrintOptions{Tasks: true})
	out := buf.String()

	assert.Contains(t, out, "PipelineID:")
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "30s")
	assert.Contains(t, out, "● demo")
	assert.Contains(t, out, "├ ✔ Prepare")
	assert.Contains(t, out, "├ ● train")
	assert.Contains(t, out, "│   ● train-x1")
	assert.Contains(t, out, "├ · eval")
	assert.Contains(t, out, "└ ◷ exit-handler")
	assert.Contains(t, out, " 1/3")
}
