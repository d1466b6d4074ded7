package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/qiuchen001/kubeflow-ground/pkg/store"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

// compile loads the pipeline and compiles it against the stored components.
func (h handlers) compile(ctx context.Context, id string) (api.Pipeline, *compiler.Document, error) {
	p, err := h.store.GetPipeline(ctx, id)
	if err != nil {
		return api.Pipeline{}, nil, err
	}
	catalog := store.NewLazyCatalog(ctx, h.store)
	doc, err := h.compiler.Compile(ctx, p, catalog)
	if cerr := catalog.Err(); cerr != nil {
		return p, nil, cerr
	}
	if err != nil {
		return p, nil, err
	}
	return p, doc, nil
}

// PipelineSpec returns the compiled pipeline as YAML.
// The format query parameter selects document (default), workflow or pipelinespec.
func (h handlers) PipelineSpec(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	ctx = context.WithPipelineID(ctx, c.Param(client.IDParam))

	_, doc, err := h.compile(ctx, ctx.PipelineID())
	if err != nil {
		return httpError(ctx, err)
	}
	b, err := doc.Render(compiler.Format(c.QueryParam("format")))
	if err != nil {
		return httpError(ctx, err)
	}
	return c.Blob(http.StatusOK, "application/yaml", b)
}
