package compiler

import "github.com/qiuchen001/kubeflow-ground/pkg/api"

// Catalog resolves component definitions by id.
type Catalog interface {
	Component(id string) (api.Component, bool)
}

// CatalogMap is a Catalog backed by a map keyed by component id.
type CatalogMap map[string]api.Component

// Component implements Catalog.
func (c CatalogMap) Component(id string) (api.Component, bool) {
	comp, ok := c[id]
	return comp, ok
}

// NewCatalogMap indexes the given components by id.
func NewCatalogMap(components ...api.Component) CatalogMap {
	c := make(CatalogMap, len(components))
	for _, comp := range components {
		c[comp.ID] = comp
	}
	return c
}

// resolveComponents looks up the component of every node. It fails on the first miss.
func resolveComponents(p api.Pipeline, catalog Catalog) (map[string]api.Component, error) {
	components := make(map[string]api.Component)
	for _, n := range p.Nodes {
		if _, done := components[n.ComponentID]; done {
			continue
		}
		comp, ok := catalog.Component(n.ComponentID)
		if !ok {
			return nil, &UnresolvedComponentError{NodeID: n.ID, ComponentID: n.ComponentID}
		}
		components[n.ComponentID] = comp
	}
	return components, nil
}
