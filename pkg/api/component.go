package api

import "strings"

// PortKind is the way a value flows through a port.
type PortKind string

const (
	// PortKindParameter is a scalar value passed by value.
	PortKindParameter PortKind = "parameter"
	// PortKindArtifact is a large value passed by reference (path).
	PortKindArtifact PortKind = "artifact"
)

// artifactTypes are the declared port types considered as artifacts.
var artifactTypes = []string{"dataset", "artifact", "model", "metrics", "html", "markdown"}

// Port is an input or output declared by a Component.
type Port struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Kind returns the kind of the port based on its declared type.
// This is informational only: at compile time, an input is an artifact iff an edge feeds it.
func (p Port) Kind() PortKind {
	t := strings.ToLower(p.Type)
	for _, a := range artifactTypes {
		if t == a {
			return PortKindArtifact
		}
	}
	return PortKindParameter
}

// Resource field names, used as keys of PipelineNode.Resources.
const (
	ResourceCPURequest    = "cpu_request"
	ResourceCPULimit      = "cpu_limit"
	ResourceMemoryRequest = "memory_request"
	ResourceMemoryLimit   = "memory_limit"
	ResourceGPULimit      = "gpu_limit"
)

// ResourceFields lists the overridable resource fields in emission order.
var ResourceFields = []string{
	ResourceCPURequest,
	ResourceCPULimit,
	ResourceMemoryRequest,
	ResourceMemoryLimit,
	ResourceGPULimit,
}

// ResourceSpec holds the default resource requests and limits of a Component.
// Quantities are kubernetes quantities encoded as strings, empty means absent.
type ResourceSpec struct {
	CPURequest    string `json:"cpu_request,omitempty"`
	CPULimit      string `json:"cpu_limit,omitempty"`
	MemoryRequest string `json:"memory_request,omitempty"`
	MemoryLimit   string `json:"memory_limit,omitempty"`
	GPULimit      string `json:"gpu_limit,omitempty"`
	GPUType       string `json:"gpu_type,omitempty"` // accelerator resource name, e.g. nvidia.com/gpu
}

// Get returns the value of the given resource field.
func (r ResourceSpec) Get(field string) string {
	switch field {
	case ResourceCPURequest:
		return r.CPURequest
	case ResourceCPULimit:
		return r.CPULimit
	case ResourceMemoryRequest:
		return r.MemoryRequest
	case ResourceMemoryLimit:
		return r.MemoryLimit
	case ResourceGPULimit:
		return r.GPULimit
	}
	return ""
}

// Set sets the value of the given resource field. Unknown fields are ignored.
func (r *ResourceSpec) Set(field, value string) {
	switch field {
	case ResourceCPURequest:
		r.CPURequest = value
	case ResourceCPULimit:
		r.CPULimit = value
	case ResourceMemoryRequest:
		r.MemoryRequest = value
	case ResourceMemoryLimit:
		r.MemoryLimit = value
	case ResourceGPULimit:
		r.GPULimit = value
	}
}

// Component is a reusable containerized unit of work.
// Args entries are either literals or placeholders: {{inputs.parameters.<name>}} or <staging-root>/<output>.
type Component struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Image       string       `json:"image"`
	Command     []string     `json:"command,omitempty"`
	Args        []string     `json:"args,omitempty"`
	Inputs      []Port       `json:"inputs"`
	Outputs     []Port       `json:"outputs"`
	Resources   ResourceSpec `json:"resources"`
	// VolcanoEnabled opts the component into the alternate (gang) scheduler.
	VolcanoEnabled bool `json:"volcano_enabled"`
}

// Input returns the input with the given name.
func (c Component) Input(name string) (Port, bool) {
	for _, p := range c.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Output returns the output with the given name.
func (c Component) Output(name string) (Port, bool) {
	for _, p := range c.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}
