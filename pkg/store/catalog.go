package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
)

// Catalog loads every component of the store into a compiler catalog.
func Catalog(ctx context.Context, s ComponentStore) (compiler.CatalogMap, error) {
	components, err := s.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	return compiler.NewCatalogMap(components...), nil
}

// LazyCatalog is a compiler catalog looking components up in the store on demand.
// Only missing components are reported as absent. Other lookup failures are also reported
// as absent to the compiler, the first one is kept and returned by Err.
type LazyCatalog struct {
	ctx context.Context
	s   ComponentStore
	err error
}

// NewLazyCatalog returns a LazyCatalog reading from s.
func NewLazyCatalog(ctx context.Context, s ComponentStore) *LazyCatalog {
	return &LazyCatalog{ctx: ctx, s: s}
}

// Component returns the component with the given id.
func (c *LazyCatalog) Component(id string) (api.Component, bool) {
	comp, err := c.s.GetComponent(c.ctx, id)
	if err != nil {
		if !IsNotFound(err) && c.err == nil {
			c.err = errors.Wrapf(err, "cannot load component %s", id)
		}
		return api.Component{}, false
	}
	return comp, true
}

// Err returns the first lookup failure other than a missing component.
func (c *LazyCatalog) Err() error {
	return c.err
}
