package compiler

import (
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

const (
	// IRSchemaVersion is the schema version of the pipeline specs run by the v2 platform.
	IRSchemaVersion = "2.1.0"
	// IRSDKVersion identifies the producer of the pipeline spec.
	IRSDKVersion = "kubeflow-ground-1.0.0"

	irArtifactSchemaVersion = "0.0.1"
	irParameterString       = "STRING"
)

// IRPipeline is the pipeline spec submitted to the v2 platform, optionally with its kubernetes platform spec.
type IRPipeline struct {
	PipelineSpec IRPipelineSpec  `json:"pipeline_spec"`
	PlatformSpec *IRPlatformSpec `json:"platform_spec,omitempty"`
}

// IRPipelineSpec is a compiled v2 pipeline.
type IRPipelineSpec struct {
	PipelineInfo   IRPipelineInfo         `json:"pipelineInfo"`
	SchemaVersion  string                 `json:"schemaVersion"`
	SDKVersion     string                 `json:"sdkVersion"`
	Components     map[string]IRComponent `json:"components"`
	DeploymentSpec IRDeploymentSpec       `json:"deploymentSpec"`
	Root           IRComponent            `json:"root"`
}

// IRPipelineInfo names the pipeline.
type IRPipelineInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IRComponent is a component definition. Task components have an executor, the root has a dag.
type IRComponent struct {
	ExecutorLabel     string         `json:"executorLabel,omitempty"`
	InputDefinitions  *IRDefinitions `json:"inputDefinitions,omitempty"`
	OutputDefinitions *IRDefinitions `json:"outputDefinitions,omitempty"`
	DAG               *IRDAG         `json:"dag,omitempty"`
}

// IRDefinitions declares artifacts and parameters of a component.
type IRDefinitions struct {
	Artifacts  map[string]IRArtifactSpec  `json:"artifacts,omitempty"`
	Parameters map[string]IRParameterSpec `json:"parameters,omitempty"`
}

// IRArtifactSpec declares an artifact.
type IRArtifactSpec struct {
	ArtifactType IRArtifactType `json:"artifactType"`
	IsOptional   bool           `json:"isOptional,omitempty"`
}

// IRArtifactType is the schema of an artifact.
type IRArtifactType struct {
	SchemaTitle   string `json:"schemaTitle"`
	SchemaVersion string `json:"schemaVersion"`
}

// IRParameterSpec declares a parameter.
type IRParameterSpec struct {
	ParameterType string `json:"parameterType"`
	IsOptional    bool   `json:"isOptional,omitempty"`
}

// IRDeploymentSpec holds the executors.
type IRDeploymentSpec struct {
	Executors map[string]IRExecutor `json:"executors"`
}

// IRExecutor runs a container.
type IRExecutor struct {
	Container IRContainer `json:"container"`
}

// IRContainer is the container of an executor.
type IRContainer struct {
	Image     string       `json:"image"`
	Command   []string     `json:"command,omitempty"`
	Args      []string     `json:"args,omitempty"`
	Resources *IRResources `json:"resources,omitempty"`
}

// IRResources are the container resources. cpu is in cores and memory in gigabytes.
type IRResources struct {
	CPURequest    float64        `json:"cpuRequest,omitempty"`
	CPULimit      float64        `json:"cpuLimit,omitempty"`
	MemoryRequest float64        `json:"memoryRequest,omitempty"`
	MemoryLimit   float64        `json:"memoryLimit,omitempty"`
	Accelerator   *IRAccelerator `json:"accelerator,omitempty"`
}

// IRAccelerator is a gpu request.
type IRAccelerator struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// IRDAG holds the tasks of the root component.
type IRDAG struct {
	Tasks map[string]IRTask `json:"tasks"`
}

// IRTask instantiates a component in the dag.
type IRTask struct {
	TaskInfo       IRTaskInfo     `json:"taskInfo"`
	ComponentRef   IRComponentRef `json:"componentRef"`
	DependentTasks []string       `json:"dependentTasks,omitempty"`
	Inputs         *IRTaskInputs  `json:"inputs,omitempty"`
}

// IRTaskInfo names a task.
type IRTaskInfo struct {
	Name string `json:"name"`
}

// IRComponentRef references a component by name.
type IRComponentRef struct {
	Name string `json:"name"`
}

// IRTaskInputs binds the inputs of a task.
type IRTaskInputs struct {
	Artifacts  map[string]IRArtifactBinding  `json:"artifacts,omitempty"`
	Parameters map[string]IRParameterBinding `json:"parameters,omitempty"`
}

// IRArtifactBinding binds an artifact input to an upstream output.
type IRArtifactBinding struct {
	TaskOutputArtifact IRTaskOutput `json:"taskOutputArtifact"`
}

// IRTaskOutput references the output of a producer task.
type IRTaskOutput struct {
	ProducerTask      string `json:"producerTask"`
	OutputArtifactKey string `json:"outputArtifactKey"`
}

// IRParameterBinding binds a parameter input to a constant.
type IRParameterBinding struct {
	RuntimeValue IRRuntimeValue `json:"runtimeValue"`
}

// IRRuntimeValue is a constant.
type IRRuntimeValue struct {
	Constant string `json:"constant"`
}

// IRPlatformSpec carries the kubernetes settings of the executors.
type IRPlatformSpec struct {
	Platforms map[string]IRKubernetesSpec `json:"platforms"`
}

// IRKubernetesSpec holds the kubernetes executor configs.
type IRKubernetesSpec struct {
	DeploymentSpec IRKubernetesDeployment `json:"deploymentSpec"`
}

// IRKubernetesDeployment holds the kubernetes config per executor.
type IRKubernetesDeployment struct {
	Executors map[string]IRKubernetesExecutor `json:"executors"`
}

// IRKubernetesExecutor is the kubernetes config of one executor.
type IRKubernetesExecutor struct {
	PodMetadata IRPodMetadata `json:"podMetadata"`
}

// IRPodMetadata is set on the executor pod.
type IRPodMetadata struct {
	Annotations map[string]string `json:"annotations,omitempty"`
}

// PipelineSpec renders the document as the pipeline spec submitted to the v2 platform.
// Task annotations go to the kubernetes platform spec.
func (d *Document) PipelineSpec() IRPipeline {
	spec := IRPipelineSpec{
		PipelineInfo:   IRPipelineInfo{Name: dnsLabel(d.Metadata.Name), Description: d.Metadata.Description},
		SchemaVersion:  IRSchemaVersion,
		SDKVersion:     IRSDKVersion,
		Components:     make(map[string]IRComponent, len(d.Spec.Tasks)),
		DeploymentSpec: IRDeploymentSpec{Executors: make(map[string]IRExecutor, len(d.Spec.Tasks))},
		Root:           IRComponent{DAG: &IRDAG{Tasks: make(map[string]IRTask, len(d.Spec.Tasks))}},
	}
	if spec.PipelineInfo.Name == "" {
		spec.PipelineInfo.Name = "pipeline"
	}
	platform := IRKubernetesDeployment{Executors: make(map[string]IRKubernetesExecutor)}

	for _, t := range d.Spec.Tasks {
		comp, exec := "comp-"+t.Name, "exec-"+t.Name
		spec.Components[comp] = irComponent(t, exec)
		spec.DeploymentSpec.Executors[exec] = IRExecutor{Container: irContainer(t)}
		spec.Root.DAG.Tasks[t.Name] = irTask(t, comp)
		if len(t.Annotations) > 0 {
			platform.Executors[exec] = IRKubernetesExecutor{PodMetadata: IRPodMetadata{Annotations: t.Annotations}}
		}
	}

	res := IRPipeline{PipelineSpec: spec}
	if len(platform.Executors) > 0 {
		res.PlatformSpec = &IRPlatformSpec{Platforms: map[string]IRKubernetesSpec{"kubernetes": {DeploymentSpec: platform}}}
	}
	return res
}

// MarshalPipelineSpec renders the v2 pipeline spec of the document as YAML.
// The pipeline and platform specs are wrapped together only when a platform spec is needed.
func (d *Document) MarshalPipelineSpec() ([]byte, error) {
	ir := d.PipelineSpec()
	var v interface{} = ir
	if ir.PlatformSpec == nil {
		v = ir.PipelineSpec
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal pipeline spec for pipeline %s", d.Metadata.PipelineID)
	}
	return b, nil
}

func irComponent(t Task, exec string) IRComponent {
	c := IRComponent{ExecutorLabel: exec}
	in := &IRDefinitions{}
	for _, p := range t.Inputs {
		_, bound := t.Arguments[p.Name]
		if p.Kind == api.PortKindArtifact {
			if in.Artifacts == nil {
				in.Artifacts = make(map[string]IRArtifactSpec)
			}
			in.Artifacts[p.Name] = IRArtifactSpec{ArtifactType: irArtifactType(p.Type), IsOptional: !bound}
			continue
		}
		if in.Parameters == nil {
			in.Parameters = make(map[string]IRParameterSpec)
		}
		in.Parameters[p.Name] = IRParameterSpec{ParameterType: irParameterString, IsOptional: !bound}
	}
	if in.Artifacts != nil || in.Parameters != nil {
		c.InputDefinitions = in
	}
	if len(t.Outputs) > 0 {
		out := &IRDefinitions{Artifacts: make(map[string]IRArtifactSpec, len(t.Outputs))}
		for _, p := range t.Outputs {
			out.Artifacts[p.Name] = IRArtifactSpec{ArtifactType: irArtifactType(p.Type)}
		}
		c.OutputDefinitions = out
	}
	return c
}

func irArtifactType(t string) IRArtifactType {
	return IRArtifactType{SchemaTitle: "system." + t, SchemaVersion: irArtifactSchemaVersion}
}

func irContainer(t Task) IRContainer {
	c := IRContainer{Image: t.Container.Image, Command: t.Container.Command}
	for _, a := range t.Container.Args {
		switch a.Kind {
		case ArgInputValue:
			c.Args = append(c.Args, "{{$.inputs.parameters['"+a.Value+"']}}")
		case ArgInputPath:
			c.Args = append(c.Args, "{{$.inputs.artifacts['"+a.Value+"'].path}}")
		case ArgOutputPath:
			c.Args = append(c.Args, "{{$.outputs.artifacts['"+a.Value+"'].path}}")
		default:
			c.Args = append(c.Args, a.Value)
		}
	}
	c.Resources = irResources(t.Resources)
	return c
}

func irResources(req *corev1.ResourceRequirements) *IRResources {
	if req == nil {
		return nil
	}
	res := &IRResources{}
	if q, ok := req.Requests[corev1.ResourceCPU]; ok {
		res.CPURequest = float64(q.MilliValue()) / 1000
	}
	if q, ok := req.Limits[corev1.ResourceCPU]; ok {
		res.CPULimit = float64(q.MilliValue()) / 1000
	}
	if q, ok := req.Requests[corev1.ResourceMemory]; ok {
		res.MemoryRequest = float64(q.Value()) / 1e9
	}
	if q, ok := req.Limits[corev1.ResourceMemory]; ok {
		res.MemoryLimit = float64(q.Value()) / 1e9
	}
	for name, q := range req.Limits {
		if name != corev1.ResourceCPU && name != corev1.ResourceMemory {
			res.Accelerator = &IRAccelerator{Type: string(name), Count: q.Value()}
		}
	}
	return res
}

func irTask(t Task, comp string) IRTask {
	task := IRTask{
		TaskInfo:       IRTaskInfo{Name: t.Name},
		ComponentRef:   IRComponentRef{Name: comp},
		DependentTasks: t.Dependencies,
	}
	in := &IRTaskInputs{}
	for name, b := range t.Arguments {
		switch {
		case b.TaskOutput != nil:
			if in.Artifacts == nil {
				in.Artifacts = make(map[string]IRArtifactBinding)
			}
			in.Artifacts[name] = IRArtifactBinding{TaskOutputArtifact: IRTaskOutput{ProducerTask: b.TaskOutput.Task, OutputArtifactKey: b.TaskOutput.Output}}
		case b.Value != nil:
			if in.Parameters == nil {
				in.Parameters = make(map[string]IRParameterBinding)
			}
			in.Parameters[name] = IRParameterBinding{RuntimeValue: IRRuntimeValue{Constant: *b.Value}}
		}
	}
	if in.Artifacts != nil || in.Parameters != nil {
		task.Inputs = in
	}
	return task
}
