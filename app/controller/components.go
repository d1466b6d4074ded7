package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

func (h handlers) CreateComponent(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	var comp api.Component
	if err := c.Bind(&comp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := comp.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comp, err := h.store.SaveComponent(ctx, comp)
	if err != nil {
		return httpError(ctx, err)
	}
	ctx.Logger().Infof("Component %s saved", comp.ID)
	return c.JSON(http.StatusCreated, comp)
}

func (h handlers) ListComponents(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	list, err := h.store.ListComponents(ctx)
	if err != nil {
		return httpError(ctx, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h handlers) GetComponent(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	comp, err := h.store.GetComponent(ctx, c.Param(client.IDParam))
	if err != nil {
		return httpError(ctx, err)
	}
	return c.JSON(http.StatusOK, comp)
}

func (h handlers) DeleteComponent(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	if err := h.store.DeleteComponent(ctx, c.Param(client.IDParam)); err != nil {
		return httpError(ctx, err)
	}
	return c.NoContent(http.StatusNoContent)
}
