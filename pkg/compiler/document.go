package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

const (
	// DocumentAPIVersion is the api version of compiled documents.
	DocumentAPIVersion = "kubeflow-ground/v1"
	// DocumentKind is the kind of compiled documents.
	DocumentKind = "PipelineSpec"
)

// Document is the compiled specification of a pipeline.
type Document struct {
	APIVersion string       `json:"apiVersion"`
	Kind       string       `json:"kind"`
	Metadata   Metadata     `json:"metadata"`
	Spec       PipelineSpec `json:"spec"`

	// Diagnostics are the non fatal events raised during compilation.
	Diagnostics []Diagnostic `json:"-"`
}

// Metadata identifies the compiled pipeline.
type Metadata struct {
	Name        string `json:"name"`
	PipelineID  string `json:"pipelineId"`
	Description string `json:"description,omitempty"`
}

// PipelineSpec holds the tasks in topological order.
type PipelineSpec struct {
	Tasks []Task `json:"tasks"`
}

// Task is the compiled specification of one node.
type Task struct {
	Name         string                       `json:"name"`
	DisplayName  string                       `json:"displayName,omitempty"`
	ComponentRef string                       `json:"componentRef,omitempty"`
	Inputs       []PortSpec                   `json:"inputs,omitempty"`
	Outputs      []PortSpec                   `json:"outputs,omitempty"`
	Container    Container                    `json:"container"`
	Arguments    map[string]Binding           `json:"arguments,omitempty"`
	Dependencies []string                     `json:"dependencies,omitempty"`
	Resources    *corev1.ResourceRequirements `json:"resources,omitempty"`
	Annotations  map[string]string            `json:"annotations,omitempty"`

	// ComponentSpec is the component definition in the platform component grammar.
	ComponentSpec string `json:"componentSpec"`
}

// PortSpec is a declared input or output of a task, with its sanitized name.
type PortSpec struct {
	Name string       `json:"name"`
	Type string       `json:"type"`
	Kind api.PortKind `json:"kind"`
}

// Container is the container part of a task.
type Container struct {
	Image   string   `json:"image"`
	Command []string `json:"command,omitempty"`
	Args    []Arg    `json:"args,omitempty"`
}

// ArgKind is the kind of a container argument.
type ArgKind string

const (
	// ArgLiteral is a literal string.
	ArgLiteral ArgKind = "literal"
	// ArgInputValue is replaced by the value of an input.
	ArgInputValue ArgKind = "inputValue"
	// ArgInputPath is replaced by the path of an artifact input.
	ArgInputPath ArgKind = "inputPath"
	// ArgOutputPath is replaced by the path where an output must be written.
	ArgOutputPath ArgKind = "outputPath"
)

// Arg is a container argument.
// Value is the literal or the sanitized port name.
type Arg struct {
	Kind  ArgKind
	Value string
}

// String renders the argument in the component grammar.
func (a Arg) String() string {
	if a.Kind == ArgLiteral {
		return fmt.Sprintf(`"%s"`, escapeLiteral(a.Value))
	}
	return fmt.Sprintf("{%s: %s}", a.Kind, a.Value)
}

// MarshalJSON renders literals as strings and references as single key objects.
func (a Arg) MarshalJSON() ([]byte, error) {
	if a.Kind == ArgLiteral {
		return json.Marshal(a.Value)
	}
	return json.Marshal(map[string]string{string(a.Kind): a.Value})
}

// Binding is the value given to a task input: either a constant or an upstream task output.
type Binding struct {
	Value      *string     `json:"value,omitempty"`
	TaskOutput *TaskOutput `json:"taskOutput,omitempty"`
}

// TaskOutput references the output of an upstream task.
type TaskOutput struct {
	Task   string `json:"task"`
	Output string `json:"output"`
}

// ConstantBinding returns a binding to a constant value.
func ConstantBinding(v string) Binding {
	return Binding{Value: &v}
}

// OutputBinding returns a binding to an upstream task output.
func OutputBinding(task, output string) Binding {
	return Binding{TaskOutput: &TaskOutput{Task: task, Output: output}}
}

// Task returns the task with the given name.
func (d *Document) Task(name string) (*Task, bool) {
	for i := range d.Spec.Tasks {
		if d.Spec.Tasks[i].Name == name {
			return &d.Spec.Tasks[i], true
		}
	}
	return nil, false
}

// TaskNames returns the task names in topological order.
func (d *Document) TaskNames() []string {
	names := make([]string, len(d.Spec.Tasks))
	for i, t := range d.Spec.Tasks {
		names[i] = t.Name
	}
	return names
}

// Marshal renders the document as YAML. Map keys are sorted so the output is deterministic.
func (d *Document) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal document for pipeline %s", d.Metadata.PipelineID)
	}
	return b, nil
}

// Format is a rendering of a compiled document.
type Format string

const (
	// FormatDocument is the document itself.
	FormatDocument Format = "document"
	// FormatWorkflow is the Argo workflow run by the v1 platform.
	FormatWorkflow Format = "workflow"
	// FormatPipelineSpec is the pipeline spec run by the v2 platform.
	FormatPipelineSpec Format = "pipelinespec"
)

// Render renders the document as YAML in the given format.
func (d *Document) Render(f Format) ([]byte, error) {
	switch f {
	case FormatDocument, "":
		return d.Marshal()
	case FormatWorkflow:
		return d.MarshalWorkflow()
	case FormatPipelineSpec:
		return d.MarshalPipelineSpec()
	}
	return nil, &UnknownFormatError{Format: string(f)}
}

// Unmarshal parses a YAML document previously rendered by Marshal.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal document")
	}
	if d.Kind != DocumentKind {
		return nil, errors.Errorf("unexpected document kind %q", d.Kind)
	}
	return &d, nil
}

// UnmarshalJSON decodes a literal string or a single key reference object.
func (a *Arg) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Arg{Kind: ArgLiteral, Value: s}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return errors.Wrapf(err, "cannot decode argument %s", string(b))
	}
	if len(m) != 1 {
		return errors.Errorf("argument %s must have exactly one key", string(b))
	}
	for k, v := range m {
		switch ArgKind(k) {
		case ArgInputValue, ArgInputPath, ArgOutputPath:
			*a = Arg{Kind: ArgKind(k), Value: v}
			return nil
		}
		return errors.Errorf("unknown argument kind %s", k)
	}
	return nil
}
