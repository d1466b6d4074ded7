package api

import (
	"github.com/pkg/errors"
)

// Validate validates the component definition
// Rules are:
// - Name and image are set
// - Input names are unique, output names are unique
func (c Component) Validate() error {
	if c.Name == "" {
		return errors.New("component name is required")
	}
	if c.Image == "" {
		return errors.Errorf("component %s has no image", c.Name)
	}
	if err := uniquePorts(c.Inputs); err != nil {
		return errors.Wrapf(err, "invalid inputs for component %s", c.Name)
	}
	if err := uniquePorts(c.Outputs); err != nil {
		return errors.Wrapf(err, "invalid outputs for component %s", c.Name)
	}
	return nil
}

func uniquePorts(ports []Port) error {
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p.Name == "" {
			return errors.New("port name is required")
		}
		if seen[p.Name] {
			return errors.Errorf("port %s is declared twice", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Validate validates the pipeline graph
// Rules are:
// - Name is set
// - Node ids are set and unique
// - Nodes refer to a component
// - Edges refer to existing nodes
// Acyclicity is checked at compile time.
func (p Pipeline) Validate() error {
	if p.Name == "" {
		return errors.New("pipeline name is required")
	}
	nodes := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" {
			return errors.New("node id is required")
		}
		if nodes[n.ID] {
			return errors.Errorf("node %s is declared twice", n.ID)
		}
		if n.ComponentID == "" {
			return errors.Errorf("node %s does not refer to any component", n.ID)
		}
		nodes[n.ID] = true
	}
	for _, e := range p.Edges {
		if !nodes[e.Source] {
			return errors.Errorf("edge %s refers to unknown source node %s", e.ID, e.Source)
		}
		if !nodes[e.Target] {
			return errors.Errorf("edge %s refers to unknown target node %s", e.ID, e.Target)
		}
	}
	return nil
}
