package common

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/status"
)

// Fullstate returns the pipeline and the state of its last run, with each task mapped to its node.
func Fullstate(ctx context.Context, cli client.Client, id string) (api.Pipeline, api.RunState, error) {
	p, err := cli.GetPipeline(ctx, id)
	if err != nil {
		return api.Pipeline{}, api.RunState{}, errors.Wrapf(err, "cannot get pipeline %s", id)
	}
	st, err := cli.Status(ctx, id)
	if err != nil {
		return api.Pipeline{}, api.RunState{}, errors.Wrapf(err, "cannot get status of pipeline %s", id)
	}
	return p, RunState(st, p.NodeIDs()), nil
}

// RunState converts a status response into a run state. Tasks are sorted by name.
func RunState(st client.StatusResponse, nodeIDs []string) api.RunState {
	state := status.Result{Tasks: st.Tasks, Phase: st.Status}.State(st.RunID, nodeIDs)
	state.CreatedAt = st.CreatedAt
	state.FinishedAt = st.FinishedAt
	return state
}

// WatchDone reports whether watching the run of pipeline id can stop, with a message to print when it
// stops for another reason than the run finishing.
func WatchDone(id string, state api.RunState) (bool, string) {
	if state.RunID == "" {
		return true, fmt.Sprintf("pipeline %s has never been run", id)
	}
	return state.Phase.Finished(), ""
}
