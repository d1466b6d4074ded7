package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

const (
	// ComponentsPath is the path definition of the component collection endpoints.
	ComponentsPath      = "/components"
	componentPathFormat = ComponentsPath + "/%s"
)

var (
	// ComponentPath is the path definition of the single component endpoints.
	ComponentPath = fmt.Sprintf(componentPathFormat, ":"+IDParam)
)

func (cli client) CreateComponent(ctx context.Context, c api.Component) (api.Component, error) {
	var res api.Component
	err := cli.do(ctx, http.MethodPost, ComponentsPath, c, "component", &res)
	return res, err
}

func (cli client) ListComponents(ctx context.Context) ([]api.Component, error) {
	var res []api.Component
	err := cli.do(ctx, http.MethodGet, ComponentsPath, nil, "components", &res)
	return res, err
}

func (cli client) GetComponent(ctx context.Context, id string) (api.Component, error) {
	var res api.Component
	err := cli.do(ctx, http.MethodGet, componentPath(id), nil, fmt.Sprintf("component %s", id), &res)
	return res, err
}

func (cli client) DeleteComponent(ctx context.Context, id string) error {
	return cli.do(ctx, http.MethodDelete, componentPath(id), nil, fmt.Sprintf("component %s", id), nil)
}
