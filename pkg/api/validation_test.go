package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c := Component{
			Name:    "train",
			Image:   "repo/train:v1",
			Inputs:  []Port{{Name: "epochs", Type: "int"}, {Name: "training_data", Type: "Dataset"}},
			Outputs: []Port{{Name: "model", Type: "Model"}},
		}
		require.NoError(t, c.Validate())
	})

	t.Run("missing_image", func(t *testing.T) {
		c := Component{Name: "train"}
		require.Error(t, c.Validate())
	})

	t.Run("duplicated_input", func(t *testing.T) {
		c := Component{
			Name:   "train",
			Image:  "repo/train:v1",
			Inputs: []Port{{Name: "lr"}, {Name: "lr"}},
		}
		require.Error(t, c.Validate())
	})
}

func TestPipelineValidate(t *testing.T) {
	p := Pipeline{
		Name: "mnist",
		Nodes: []PipelineNode{
			{ID: "prep", ComponentID: "c1"},
			{ID: "train", ComponentID: "c2"},
		},
		Edges: []PipelineEdge{
			{ID: "e1", Source: "prep", Target: "train"},
		},
	}
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, p.Validate())
	})

	t.Run("unknown_target", func(t *testing.T) {
		bad := p
		bad.Edges = []PipelineEdge{{ID: "e1", Source: "prep", Target: "eval"}}
		err := bad.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "eval")
	})

	t.Run("duplicated_node", func(t *testing.T) {
		bad := p
		bad.Nodes = []PipelineNode{{ID: "prep", ComponentID: "c1"}, {ID: "prep", ComponentID: "c1"}}
		bad.Edges = nil
		require.Error(t, bad.Validate())
	})

	t.Run("no_component", func(t *testing.T) {
		bad := p
		bad.Nodes = []PipelineNode{{ID: "prep"}}
		bad.Edges = nil
		require.Error(t, bad.Validate())
	})
}

func TestEdgeKind(t *testing.T) {
	assert.True(t, PipelineEdge{SourceHandle: "data", TargetHandle: "training_data"}.IsData())
	assert.True(t, PipelineEdge{}.IsOrdering())
	half := PipelineEdge{TargetHandle: "training_data"}
	assert.False(t, half.IsData())
	assert.False(t, half.IsOrdering())
}

func TestPhaseFinished(t *testing.T) {
	assert.True(t, PhaseSucceeded.Finished())
	assert.True(t, Phase("SUCCEEDED").Finished())
	assert.True(t, Phase("failed").Finished())
	assert.False(t, PhaseRunning.Finished())
	assert.False(t, Phase("PENDING").Finished())
	assert.True(t, Phase("RUNNING").Is(PhaseRunning))
}

func TestPortKind(t *testing.T) {
	assert.Equal(t, PortKindArtifact, Port{Type: "Dataset"}.Kind())
	assert.Equal(t, PortKindParameter, Port{Type: "string"}.Kind())
	assert.Equal(t, PortKindParameter, Port{}.Kind())
}
