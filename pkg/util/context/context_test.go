package context

import (
	gocontext "context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWith(t *testing.T) {
	ctx := Background()
	ctx = WithPipelineID(ctx, "p1")
	ctx = WithRunID(ctx, "r1")
	ctx = WithNodeID(ctx, "train")
	ctx = WithCorrelationID(ctx, "c1")

	assert.Equal(t, "p1", ctx.PipelineID())
	assert.Equal(t, "r1", ctx.RunID())
	assert.Equal(t, "train", ctx.NodeID())
	assert.Equal(t, "c1", ctx.CorrelationID())

	e := ctx.Logger()
	assert.Equal(t, "p1", e.Data["pipeline_id"])
	assert.Equal(t, "r1", e.Data["run_id"])
	assert.Equal(t, "train", e.Data["node_id"])
}

func TestFromContext(t *testing.T) {
	t.Run("go_context", func(t *testing.T) {
		c, cancel := gocontext.WithCancel(gocontext.Background())
		ctx := FromContext(c)
		cancel()
		assert.Error(t, ctx.Err())
		assert.Empty(t, ctx.PipelineID())
	})

	t.Run("already_context", func(t *testing.T) {
		ctx := WithPipelineID(Background(), "p1")
		assert.Equal(t, "p1", FromContext(ctx).PipelineID())
	})
}
