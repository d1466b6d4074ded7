package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

const (
	// PipelinesPath is the path definition of the pipeline collection endpoints.
	PipelinesPath      = "/pipelines"
	pipelinePathFormat = PipelinesPath + "/%s"
)

var (
	// PipelinePath is the path definition of the single pipeline endpoints.
	PipelinePath = fmt.Sprintf(pipelinePathFormat, ":"+IDParam)
	// PipelineSpecPath is the path definition of the endpoint PipelineSpec.
	PipelineSpecPath = PipelinePath + "/spec"
)

func (cli client) CreatePipeline(ctx context.Context, p api.Pipeline) (api.Pipeline, error) {
	var res api.Pipeline
	err := cli.do(ctx, http.MethodPost, PipelinesPath, p, "pipeline", &res)
	return res, err
}

func (cli client) ListPipelines(ctx context.Context) ([]api.Pipeline, error) {
	var res []api.Pipeline
	err := cli.do(ctx, http.MethodGet, PipelinesPath, nil, "pipelines", &res)
	return res, err
}

func (cli client) GetPipeline(ctx context.Context, id string) (api.Pipeline, error) {
	var res api.Pipeline
	err := cli.do(ctx, http.MethodGet, pipelinePath(id), nil, fmt.Sprintf("pipeline %s", id), &res)
	return res, err
}

func (cli client) DeletePipeline(ctx context.Context, id string) error {
	return cli.do(ctx, http.MethodDelete, pipelinePath(id), nil, fmt.Sprintf("pipeline %s", id), nil)
}

func (cli client) PipelineSpec(ctx context.Context, id string) ([]byte, error) {
	var res []byte
	err := cli.do(ctx, http.MethodGet, pipelinePath(id)+"/spec", nil, fmt.Sprintf("pipeline %s", id), &res)
	return res, err
}
