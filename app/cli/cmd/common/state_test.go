package common

import (
	"testing"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/stretchr/testify/assert"
)

func TestWatchDone(t *testing.T) {
	t.Run("never run", func(t *testing.T) {
		state := RunState(client.StatusResponse{}, []string{"prep"})
		done, msg := WatchDone("p1", state)
		assert.True(t, done)
		assert.Equal(t, "pipeline p1 has never been run", msg)
	})

	t.Run("running", func(t *testing.T) {
		done, msg := WatchDone("p1", api.RunState{RunID: "r1", Phase: api.PhaseRunning})
		assert.False(t, done)
		assert.Empty(t, msg)
	})

	t.Run("finished", func(t *testing.T) {
		done, msg := WatchDone("p1", api.RunState{RunID: "r1", Phase: api.PhaseSucceeded})
		assert.True(t, done)
		assert.Empty(t, msg)
	})
}
