package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pipelines", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var p api.Pipeline
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			if p.Name == "" {
				writeJSON(w, 400, map[string]string{"message": "pipeline name is required"})
				return
			}
			p.ID = "p1"
			writeJSON(w, 201, p)
			return
		}
		writeJSON(w, 200, []api.Pipeline{{ID: "p1", Name: "demo"}})
	})
	mux.HandleFunc("/pipelines/p1/spec", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/yaml")
		_, _ = w.Write([]byte("kind: PipelineSpec\n"))
	})
	mux.HandleFunc("/pipelines/p1/run", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, 200, RunResponse{Status: StatusSubmitted, RunID: "r1"})
	})
	mux.HandleFunc("/pipelines/p1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, StatusResponse{RunID: "r1", Status: "Running", Tasks: map[string]string{"train": "Running"}, Nodes: map[string]string{"train": "Running"}})
	})
	mux.HandleFunc("/components/c1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, 200, api.Component{ID: "c1", Name: "prep", Image: "prep:1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cli, err := NewClient(srv.URL + "/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("create pipeline", func(t *testing.T) {
		p, err := cli.CreatePipeline(ctx, api.Pipeline{Name: "demo"})
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
	})

	t.Run("create invalid pipeline", func(t *testing.T) {
		_, err := cli.CreatePipeline(ctx, api.Pipeline{})
		require.Error(t, err)
		_, ok := err.(ErrBadRequest)
		assert.True(t, ok)
		assert.Equal(t, "pipeline name is required", err.Error())
	})

	t.Run("list pipelines", func(t *testing.T) {
		list, err := cli.ListPipelines(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("spec", func(t *testing.T) {
		b, err := cli.PipelineSpec(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "kind: PipelineSpec\n", string(b))
	})

	t.Run("run", func(t *testing.T) {
		res, err := cli.Run(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, RunResponse{Status: StatusSubmitted, RunID: "r1"}, res)
	})

	t.Run("status", func(t *testing.T) {
		res, err := cli.Status(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Running", res.Status)
		assert.Equal(t, map[string]string{"train": "Running"}, res.Nodes)
	})

	t.Run("component", func(t *testing.T) {
		c, err := cli.GetComponent(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "prep", c.Name)
		assert.NoError(t, cli.DeleteComponent(ctx, "c1"))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := cli.GetPipeline(ctx, "unknown")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "pipeline unknown not found", err.Error())
	})
}
