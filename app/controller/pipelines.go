package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

func (h handlers) CreatePipeline(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	var p api.Pipeline
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := p.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.store.SavePipeline(ctx, p)
	if err != nil {
		return httpError(ctx, err)
	}
	context.WithPipelineID(ctx, p.ID).Logger().Info("Pipeline saved")
	return c.JSON(http.StatusCreated, p)
}

func (h handlers) ListPipelines(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	list, err := h.store.ListPipelines(ctx)
	if err != nil {
		return httpError(ctx, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h handlers) GetPipeline(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	p, err := h.store.GetPipeline(ctx, c.Param(client.IDParam))
	if err != nil {
		return httpError(ctx, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h handlers) DeletePipeline(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	if err := h.store.DeletePipeline(ctx, c.Param(client.IDParam)); err != nil {
		return httpError(ctx, err)
	}
	return c.NoContent(http.StatusNoContent)
}
