package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

func compilePrepTrain(t *testing.T, prep api.Component) *Document {
	doc, err := New().Compile(context.Background(), prepTrainPipeline(), NewCatalogMap(prep, trainComponent()))
	require.NoError(t, err)
	return doc
}

func TestDocument_Workflow(t *testing.T) {
	t.Run("prep and train", func(t *testing.T) {
		wf := compilePrepTrain(t, prepComponent()).Workflow()
		assert.Equal(t, WorkflowAPIVersion, wf.APIVersion)
		assert.Equal(t, WorkflowKind, wf.Kind)
		assert.Equal(t, "prep-train-", wf.Metadata.GenerateName)
		assert.Equal(t, "prep-train", wf.Spec.Entrypoint)
		assert.Equal(t, WorkflowServiceAccount, wf.Spec.ServiceAccountName)

		dag, ok := wf.Template("prep-train")
		require.True(t, ok)
		require.NotNil(t, dag.DAG)
		lr := "0.1"
		assert.Equal(t, []DAGTask{
			{Name: "prep", Template: "prep"},
			{
				Name:         "train",
				Template:     "train",
				Dependencies: []string{"prep"},
				Arguments: &IOs{
					Parameters: []Parameter{{Name: "lr", Value: &lr}},
					Artifacts:  []Artifact{{Name: "raw_data_", From: "{{tasks.prep.outputs.artifacts.prep-out_data}}"}},
				},
			},
		}, dag.DAG.Tasks)

		prep, ok := wf.Template("prep")
		require.True(t, ok)
		assert.Equal(t, []string{"--out", "/tmp/outputs/out_data/data"}, prep.Container.Args)
		assert.Equal(t, &IOs{Artifacts: []Artifact{{Name: "prep-out_data", Path: "/tmp/outputs/out_data/data"}}}, prep.Outputs)
		assert.Nil(t, prep.Inputs)

		train, ok := wf.Template("train")
		require.True(t, ok)
		assert.Equal(t, "train:1", train.Container.Image)
		assert.Equal(t, []string{"python"}, train.Container.Command)
		assert.Equal(t, []string{
			"--data", "/tmp/inputs/raw_data_/data",
			"--lr", "{{inputs.parameters.lr}}",
			"/tmp/outputs/model/data",
		}, train.Container.Args)
		assert.Equal(t, &IOs{
			Parameters: []Parameter{{Name: "lr"}},
			Artifacts:  []Artifact{{Name: "raw_data_", Path: "/tmp/inputs/raw_data_/data"}},
		}, train.Inputs)
		assert.Equal(t, &IOs{Artifacts: []Artifact{{Name: "train-model", Path: "/tmp/outputs/model/data"}}}, train.Outputs)
		cpu := train.Container.Resources.Requests[corev1.ResourceCPU]
		assert.Equal(t, "500m", cpu.String())
		assert.Equal(t, "Train model", train.Metadata.Annotations[annotationTaskDisplay])
	})

	t.Run("yaml", func(t *testing.T) {
		b, err := compilePrepTrain(t, prepComponent()).MarshalWorkflow()
		require.NoError(t, err)
		s := string(b)
		assert.True(t, strings.HasPrefix(s, "apiVersion: argoproj.io/v1alpha1\nkind: Workflow\n"), s)

		var wf Workflow
		require.NoError(t, yaml.Unmarshal(b, &wf))
		dag, _ := wf.Template(wf.Spec.Entrypoint)
		assert.Equal(t, []string{"prep"}, dag.DAG.Tasks[1].Dependencies)
	})

	t.Run("scheduler annotations on the pod", func(t *testing.T) {
		prep := prepComponent()
		prep.VolcanoEnabled = true
		wf := compilePrepTrain(t, prep).Workflow()
		tpl, _ := wf.Template("prep")
		assert.Equal(t, "pipeline-p1", tpl.Metadata.Annotations[api.AnnotationSchedulingGroup])
		assert.Equal(t, "volcano", tpl.Metadata.Annotations[api.AnnotationSchedulerName])
	})

	t.Run("unbound inputs and unwritten outputs are optional", func(t *testing.T) {
		comp := api.Component{
			ID:      "c",
			Name:    "c",
			Image:   "c:1",
			Inputs:  []api.Port{{Name: "x", Type: "String"}},
			Outputs: []api.Port{{Name: "y", Type: "Dataset"}},
		}
		p := api.Pipeline{ID: "p", Name: "Demo Pipeline", Nodes: []api.PipelineNode{{ID: "Step_1", ComponentID: "c"}}}
		doc, err := New().Compile(context.Background(), p, NewCatalogMap(comp))
		require.NoError(t, err)
		wf := doc.Workflow()

		assert.Equal(t, "demo-pipeline", wf.Spec.Entrypoint)
		tpl, ok := wf.Template("step-1")
		require.True(t, ok)
		empty := ""
		assert.Equal(t, []Parameter{{Name: "x", Default: &empty}}, tpl.Inputs.Parameters)
		assert.Equal(t, []Artifact{{Name: "step-1-y", Path: "/tmp/outputs/y/data", Optional: true}}, tpl.Outputs.Artifacts)
	})

	t.Run("entrypoint name does not collide with a task", func(t *testing.T) {
		p := api.Pipeline{ID: "p", Name: "prep", Nodes: []api.PipelineNode{{ID: "prep", ComponentID: "c-prep"}}}
		doc, err := New().Compile(context.Background(), p, NewCatalogMap(prepComponent()))
		require.NoError(t, err)
		wf := doc.Workflow()
		assert.Equal(t, "prep-2", wf.Spec.Entrypoint)
		assert.Len(t, wf.Spec.Templates, 2)
	})
}

func TestDocument_PipelineSpec(t *testing.T) {
	t.Run("prep and train", func(t *testing.T) {
		ir := compilePrepTrain(t, prepComponent()).PipelineSpec()
		assert.Nil(t, ir.PlatformSpec)

		spec := ir.PipelineSpec
		assert.Equal(t, "prep-train", spec.PipelineInfo.Name)
		assert.Equal(t, IRSchemaVersion, spec.SchemaVersion)

		train := spec.Components["comp-train"]
		assert.Equal(t, "exec-train", train.ExecutorLabel)
		assert.Equal(t, IRArtifactType{SchemaTitle: "system.Dataset", SchemaVersion: "0.0.1"}, train.InputDefinitions.Artifacts["raw_data_"].ArtifactType)
		assert.Equal(t, IRParameterSpec{ParameterType: "STRING"}, train.InputDefinitions.Parameters["lr"])

		exec := spec.DeploymentSpec.Executors["exec-train"].Container
		assert.Equal(t, []string{
			"--data", "{{$.inputs.artifacts['raw_data_'].path}}",
			"--lr", "{{$.inputs.parameters['lr']}}",
			"{{$.outputs.artifacts['model'].path}}",
		}, exec.Args)
		require.NotNil(t, exec.Resources)
		assert.Equal(t, 0.5, exec.Resources.CPURequest)

		task := spec.Root.DAG.Tasks["train"]
		assert.Equal(t, IRComponentRef{Name: "comp-train"}, task.ComponentRef)
		assert.Equal(t, []string{"prep"}, task.DependentTasks)
		assert.Equal(t, IRTaskOutput{ProducerTask: "prep", OutputArtifactKey: "out_data"}, task.Inputs.Artifacts["raw_data_"].TaskOutputArtifact)
		assert.Equal(t, "0.1", task.Inputs.Parameters["lr"].RuntimeValue.Constant)
	})

	t.Run("annotations in the platform spec", func(t *testing.T) {
		prep := prepComponent()
		prep.VolcanoEnabled = true
		doc := compilePrepTrain(t, prep)
		ir := doc.PipelineSpec()
		require.NotNil(t, ir.PlatformSpec)
		pod := ir.PlatformSpec.Platforms["kubernetes"].DeploymentSpec.Executors["exec-prep"].PodMetadata
		assert.Equal(t, "volcano", pod.Annotations[api.AnnotationSchedulerName])

		b, err := doc.MarshalPipelineSpec()
		require.NoError(t, err)
		assert.Contains(t, string(b), "platform_spec:")
	})

	t.Run("yaml", func(t *testing.T) {
		b, err := compilePrepTrain(t, prepComponent()).Render(FormatPipelineSpec)
		require.NoError(t, err)
		var spec IRPipelineSpec
		require.NoError(t, yaml.Unmarshal(b, &spec))
		assert.Equal(t, "prep-train", spec.PipelineInfo.Name)
		assert.Len(t, spec.Root.DAG.Tasks, 2)
	})
}

func TestDocument_Render(t *testing.T) {
	doc := compilePrepTrain(t, prepComponent())

	b, err := doc.Render(FormatWorkflow)
	require.NoError(t, err)
	assert.Contains(t, string(b), "kind: Workflow")

	b, err = doc.Render(FormatDocument)
	require.NoError(t, err)
	assert.Contains(t, string(b), "kind: "+DocumentKind)

	_, err = doc.Render("argo")
	require.Error(t, err)
	assert.IsType(t, &UnknownFormatError{}, err)
}
