package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/events"
	"github.com/qiuchen001/kubeflow-ground/pkg/platform"
	"github.com/qiuchen001/kubeflow-ground/pkg/status"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

func (h handlers) Status(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	ctx = context.WithPipelineID(ctx, c.Param(client.IDParam))

	p, err := h.store.GetPipeline(ctx, ctx.PipelineID())
	if err != nil {
		return httpError(ctx, err)
	}
	if p.LastRunID == "" {
		return c.JSON(http.StatusOK, client.StatusResponse{Status: client.StatusUnknown})
	}
	ctx = context.WithRunID(ctx, p.LastRunID)
	ctx = context.WithCorrelationID(ctx, uuid.New().String())

	var payload interface{}
	run, err := h.platform.GetRun(ctx, p.LastRunID)
	switch {
	case platform.IsNotFound(err):
		ctx.Logger().Warn("Run not found on the platform")
	case err != nil:
		return httpError(ctx, err)
	default:
		payload = run
	}

	res, err := h.normalizer.Normalize(ctx, p.LastRunID, payload)
	if err != nil {
		return httpError(ctx, err)
	}
	state := res.State(p.LastRunID, p.NodeIDs())

	resp := client.StatusResponse{
		RunID:  p.LastRunID,
		Status: string(state.Phase),
		Tasks:  res.Tasks,
		Nodes:  make(map[string]string),
	}
	for _, t := range state.Tasks {
		if t.NodeID != "" {
			resp.Nodes[t.NodeID] = string(t.Phase)
		}
	}
	resp.CreatedAt, resp.FinishedAt = status.RunTimes(payload)
	if resp.Status == "" {
		resp.Status = string(api.PhaseUnknown)
	}

	h.publish(ctx, events.Event{
		Type: events.TypeRunStatus,
		Data: events.RunStatusData{Phase: state.Phase, Tasks: res.Tasks},
	})
	return c.JSON(http.StatusOK, resp)
}
