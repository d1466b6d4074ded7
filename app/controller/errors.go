package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/qiuchen001/kubeflow-ground/pkg/platform"
	"github.com/qiuchen001/kubeflow-ground/pkg/store"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

// httpError maps err to an echo HTTP error.
func httpError(ctx context.Context, err error) error {
	var unresolved *compiler.UnresolvedComponentError
	var cyclic *compiler.CyclicGraphError
	var httpErr platform.HTTPError
	var format *compiler.UnknownFormatError

	code := http.StatusInternalServerError
	switch {
	case store.IsNotFound(err):
		code = http.StatusNotFound
	case errors.As(err, &format):
		code = http.StatusBadRequest
	case errors.As(err, &unresolved), errors.As(err, &cyclic):
		code = http.StatusUnprocessableEntity
	case platform.IsTransport(err), platform.IsNotFound(err), errors.As(err, &httpErr):
		code = http.StatusBadGateway
	}
	if code >= 500 {
		ctx.Logger().WithError(err).Error("Request failed")
	}
	return echo.NewHTTPError(code, err.Error())
}
