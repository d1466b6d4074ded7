package api

// Position is the location of a node in the graph editor.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PipelineNode is one instantiation of a Component within a Pipeline.
type PipelineNode struct {
	ID          string   `json:"id"`
	ComponentID string   `json:"component_id"`
	Label       string   `json:"label"`
	Position    Position `json:"position"`
	// Args are constant values for inputs not fed by an edge.
	Args map[string]string `json:"args,omitempty"`
	// Resources override the Component defaults field by field. Empty values are ignored.
	Resources map[string]string `json:"resources,omitempty"`
}

// PipelineEdge is a directed relation between two nodes.
type PipelineEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"` // output name
	TargetHandle string `json:"targetHandle,omitempty"` // input name
}

// IsData returns true if the edge wires an upstream output to a downstream input.
func (e PipelineEdge) IsData() bool {
	return e.SourceHandle != "" && e.TargetHandle != ""
}

// IsOrdering returns true if the edge only enforces execution order.
func (e PipelineEdge) IsOrdering() bool {
	return e.SourceHandle == "" && e.TargetHandle == ""
}

// Pipeline is a graph of nodes and edges.
type Pipeline struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Nodes       []PipelineNode `json:"nodes"`
	Edges       []PipelineEdge `json:"edges"`
	LastRunID   string         `json:"last_run_id,omitempty"`
}

// Node returns the node with the given id.
func (p Pipeline) Node(id string) (PipelineNode, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PipelineNode{}, false
}

// NodeIDs returns the node ids in declaration order.
func (p Pipeline) NodeIDs() []string {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.ID
	}
	return ids
}
