package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/events"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

func (h handlers) Run(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	ctx = context.WithPipelineID(ctx, c.Param(client.IDParam))
	ctx = context.WithCorrelationID(ctx, uuid.New().String())

	p, doc, err := h.compile(ctx, ctx.PipelineID())
	if err != nil {
		return httpError(ctx, err)
	}
	path, err := h.platform.Package(doc)
	if err != nil {
		return httpError(ctx, err)
	}
	run, err := h.platform.Submit(ctx, path, "Run "+p.Name, "")
	if err != nil {
		return httpError(ctx, err)
	}
	ctx = context.WithRunID(ctx, run.RunID)
	ctx.Logger().Infof("Run %s submitted", run.RunName)

	p.LastRunID = run.RunID
	if _, err := h.store.SavePipeline(ctx, p); err != nil {
		return httpError(ctx, err)
	}

	h.publish(ctx, events.Event{
		Type: events.TypeRunSubmitted,
		Data: events.RunSubmittedData{RunName: run.RunName, ExperimentID: run.ExperimentID},
	})
	return c.JSON(http.StatusOK, client.RunResponse{
		Status: client.StatusSubmitted,
		RunID:  run.RunID,
	})
}

// publish publishes the event with the context identifiers. Failures are only logged.
func (h handlers) publish(ctx context.Context, evt events.Event) {
	evt.PipelineID = ctx.PipelineID()
	evt.RunID = ctx.RunID()
	evt.CorrelationID = ctx.CorrelationID()
	evt.Time = time.Now()
	if err := h.broker.Publish(ctx, evt); err != nil {
		ctx.Logger().WithError(err).Warnf("Cannot publish event %s", evt.Type)
	}
}
