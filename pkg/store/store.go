package store

import (
	"context"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// Store interface defines access to the store backend
type Store interface {
	ComponentStore
	PipelineStore
}

// ComponentStore defines access to the component catalog.
type ComponentStore interface {
	GetComponent(ctx context.Context, id string) (api.Component, error)
	ListComponents(ctx context.Context) ([]api.Component, error)
	// SaveComponent creates or overwrites the component. An id is assigned if empty.
	SaveComponent(ctx context.Context, c api.Component) (api.Component, error)
	DeleteComponent(ctx context.Context, id string) error
}

// PipelineStore defines access to the pipeline graphs.
type PipelineStore interface {
	GetPipeline(ctx context.Context, id string) (api.Pipeline, error)
	ListPipelines(ctx context.Context) ([]api.Pipeline, error)
	// SavePipeline creates or overwrites the pipeline. An id is assigned if empty.
	SavePipeline(ctx context.Context, p api.Pipeline) (api.Pipeline, error)
	DeletePipeline(ctx context.Context, id string) error
}
