package compiler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	// WorkflowAPIVersion is the api version of the Argo workflows run by the v1 platform.
	WorkflowAPIVersion = "argoproj.io/v1alpha1"
	// WorkflowKind is the kind of the Argo workflows run by the v1 platform.
	WorkflowKind = "Workflow"
	// WorkflowServiceAccount is the service account the platform runs pipeline pods with.
	WorkflowServiceAccount = "pipeline-runner"

	annotationPipelineSpec = "pipelines.kubeflow.org/pipeline_spec"
	annotationComponentRef = "pipelines.kubeflow.org/component_ref"
	annotationTaskDisplay  = "pipelines.kubeflow.org/task_display_name"

	inputArtifactRoot  = "/tmp/inputs"
	outputArtifactRoot = "/tmp/outputs"
	artifactFile       = "data"
)

// Workflow is an Argo workflow.
type Workflow struct {
	APIVersion string            `json:"apiVersion"`
	Kind       string            `json:"kind"`
	Metadata   metav1.ObjectMeta `json:"metadata"`
	Spec       WorkflowSpec      `json:"spec"`
}

// WorkflowSpec is the spec of an Argo workflow.
type WorkflowSpec struct {
	Entrypoint         string     `json:"entrypoint"`
	ServiceAccountName string     `json:"serviceAccountName,omitempty"`
	Templates          []Template `json:"templates"`
}

// Template is an Argo template: a container template per task, and one dag template.
type Template struct {
	Name      string            `json:"name"`
	Metadata  *TemplateMetadata `json:"metadata,omitempty"`
	Inputs    *IOs              `json:"inputs,omitempty"`
	Outputs   *IOs              `json:"outputs,omitempty"`
	Container *corev1.Container `json:"container,omitempty"`
	DAG       *DAG              `json:"dag,omitempty"`
}

// TemplateMetadata is the metadata set on the pod of a container template.
type TemplateMetadata struct {
	Annotations map[string]string `json:"annotations,omitempty"`
}

// IOs holds template inputs, template outputs or task arguments.
type IOs struct {
	Parameters []Parameter `json:"parameters,omitempty"`
	Artifacts  []Artifact  `json:"artifacts,omitempty"`
}

// Parameter is an Argo parameter.
type Parameter struct {
	Name    string  `json:"name"`
	Value   *string `json:"value,omitempty"`
	Default *string `json:"default,omitempty"`
}

// Artifact is an Argo artifact. Path is set in templates, From in dag task arguments.
type Artifact struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	From     string `json:"from,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// DAG is an Argo dag template.
type DAG struct {
	Tasks []DAGTask `json:"tasks"`
}

// DAGTask runs a container template in the dag.
type DAGTask struct {
	Name         string   `json:"name"`
	Template     string   `json:"template"`
	Dependencies []string `json:"dependencies,omitempty"`
	Arguments    *IOs     `json:"arguments,omitempty"`
}

// Template returns the template with the given name.
func (w *Workflow) Template(name string) (*Template, bool) {
	for i := range w.Spec.Templates {
		if w.Spec.Templates[i].Name == name {
			return &w.Spec.Templates[i], true
		}
	}
	return nil, false
}

// Workflow renders the document as the Argo workflow submitted to the v1 platform.
// Task names are turned into DNS labels, the dag template is the entrypoint.
func (d *Document) Workflow() *Workflow {
	names := workflowNames(d)
	entrypoint := names.entrypoint

	spec, _ := json.Marshal(map[string]string{"name": d.Metadata.Name, "description": d.Metadata.Description})
	w := &Workflow{
		APIVersion: WorkflowAPIVersion,
		Kind:       WorkflowKind,
		Metadata: metav1.ObjectMeta{
			GenerateName: entrypoint + "-",
			Annotations:  map[string]string{annotationPipelineSpec: string(spec)},
		},
		Spec: WorkflowSpec{
			Entrypoint:         entrypoint,
			ServiceAccountName: WorkflowServiceAccount,
		},
	}

	dag := &DAG{}
	for _, t := range d.Spec.Tasks {
		name := names.tasks[t.Name]
		task := DAGTask{Name: name, Template: name}
		for _, dep := range t.Dependencies {
			task.Dependencies = append(task.Dependencies, names.tasks[dep])
		}
		task.Arguments = taskArguments(t, names)
		dag.Tasks = append(dag.Tasks, task)
		w.Spec.Templates = append(w.Spec.Templates, containerTemplate(t, name))
	}
	w.Spec.Templates = append([]Template{{Name: entrypoint, DAG: dag}}, w.Spec.Templates...)
	return w
}

// MarshalWorkflow renders the Argo workflow of the document as YAML.
func (d *Document) MarshalWorkflow() ([]byte, error) {
	b, err := yaml.Marshal(d.Workflow())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal workflow for pipeline %s", d.Metadata.PipelineID)
	}
	return b, nil
}

func containerTemplate(t Task, name string) Template {
	tpl := Template{Name: name}

	c := &corev1.Container{
		Name:    "main",
		Image:   t.Container.Image,
		Command: t.Container.Command,
	}
	written := make(map[string]bool)
	for _, a := range t.Container.Args {
		switch a.Kind {
		case ArgInputValue:
			c.Args = append(c.Args, "{{inputs.parameters."+a.Value+"}}")
		case ArgInputPath:
			c.Args = append(c.Args, artifactPath(inputArtifactRoot, a.Value))
		case ArgOutputPath:
			written[a.Value] = true
			c.Args = append(c.Args, artifactPath(outputArtifactRoot, a.Value))
		default:
			c.Args = append(c.Args, a.Value)
		}
	}
	if t.Resources != nil {
		c.Resources = *t.Resources
	}
	tpl.Container = c

	in := &IOs{}
	for _, p := range t.Inputs {
		_, bound := t.Arguments[p.Name]
		if p.Kind == api.PortKindArtifact {
			in.Artifacts = append(in.Artifacts, Artifact{Name: p.Name, Path: artifactPath(inputArtifactRoot, p.Name), Optional: !bound})
			continue
		}
		param := Parameter{Name: p.Name}
		if !bound {
			empty := ""
			param.Default = &empty
		}
		in.Parameters = append(in.Parameters, param)
	}
	if len(in.Parameters) > 0 || len(in.Artifacts) > 0 {
		tpl.Inputs = in
	}

	out := &IOs{}
	for _, p := range t.Outputs {
		out.Artifacts = append(out.Artifacts, Artifact{
			Name:     outputArtifactName(name, p.Name),
			Path:     artifactPath(outputArtifactRoot, p.Name),
			Optional: !written[p.Name],
		})
	}
	if len(out.Artifacts) > 0 {
		tpl.Outputs = out
	}

	annotations := map[string]string{annotationTaskDisplay: t.DisplayName}
	if t.ComponentRef != "" {
		ref, _ := json.Marshal(map[string]string{"id": t.ComponentRef})
		annotations[annotationComponentRef] = string(ref)
	}
	for k, v := range t.Annotations {
		annotations[k] = v
	}
	tpl.Metadata = &TemplateMetadata{Annotations: annotations}
	return tpl
}

// taskArguments renders the bindings of a task in input declaration order.
func taskArguments(t Task, names workflowNameMap) *IOs {
	args := &IOs{}
	for _, p := range t.Inputs {
		b, ok := t.Arguments[p.Name]
		if !ok {
			continue
		}
		switch {
		case b.TaskOutput != nil:
			producer := names.tasks[b.TaskOutput.Task]
			from := fmt.Sprintf("{{tasks.%s.outputs.artifacts.%s}}", producer, outputArtifactName(producer, b.TaskOutput.Output))
			args.Artifacts = append(args.Artifacts, Artifact{Name: p.Name, From: from})
		case b.Value != nil:
			v := *b.Value
			args.Parameters = append(args.Parameters, Parameter{Name: p.Name, Value: &v})
		}
	}
	if len(args.Parameters) == 0 && len(args.Artifacts) == 0 {
		return nil
	}
	return args
}

func artifactPath(root, name string) string {
	return root + "/" + name + "/" + artifactFile
}

func outputArtifactName(task, output string) string {
	return task + "-" + output
}

type workflowNameMap struct {
	entrypoint string
	tasks      map[string]string
}

// workflowNames maps task names and the pipeline name to unique DNS labels.
func workflowNames(d *Document) workflowNameMap {
	used := make(map[string]bool)
	unique := func(raw, fallback string) string {
		base := dnsLabel(raw)
		if base == "" {
			base = fallback
		}
		n := base
		for i := 2; used[n]; i++ {
			n = fmt.Sprintf("%s-%d", base, i)
		}
		used[n] = true
		return n
	}

	m := workflowNameMap{tasks: make(map[string]string, len(d.Spec.Tasks))}
	for _, t := range d.Spec.Tasks {
		m.tasks[t.Name] = unique(t.Name, "task")
	}
	m.entrypoint = unique(d.Metadata.Name, "pipeline")
	return m
}

// dnsLabel lowercases s and replaces every character outside [a-z0-9-] with a dash.
func dnsLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	res := strings.Trim(b.String(), "-")
	if len(res) > 63 {
		res = strings.TrimRight(res[:63], "-")
	}
	return res
}
