package platform

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func newTestClient(t *testing.T, h http.Handler, conf Config) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	conf.Endpoint = srv.URL
	cli, err := NewClient(conf)
	require.NoError(t, err)
	return cli, srv
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{APIVersion: "v3"})
	assert.Error(t, err)

	cli, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:30088/apis/v1beta1", cli.base)
	assert.Equal(t, "Default", cli.Config().Experiment)
}

func TestClient_Package(t *testing.T) {
	dir, err := ioutil.TempDir("", "package")
	require.NoError(t, err)

	comp := api.Component{ID: "c1", Name: "hello", Image: "busybox", Command: []string{"echo"}, Args: []string{"hi"}}
	p := api.Pipeline{ID: "p1", Name: "demo", Nodes: []api.PipelineNode{{ID: "hello", ComponentID: "c1"}}}
	doc, err := compiler.New().Compile(context.Background(), p, compiler.NewCatalogMap(comp))
	require.NoError(t, err)

	t.Run("v1 workflow", func(t *testing.T) {
		cli, err := NewClient(Config{PackageDir: dir})
		require.NoError(t, err)
		assert.Equal(t, compiler.FormatWorkflow, cli.Format())

		path, err := cli.Package(doc)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "p1.yaml"), path)

		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		var wf compiler.Workflow
		require.NoError(t, yaml.Unmarshal(b, &wf))
		assert.Equal(t, compiler.WorkflowKind, wf.Kind)
		assert.Equal(t, "demo", wf.Spec.Entrypoint)
	})

	t.Run("v2 pipeline spec", func(t *testing.T) {
		cli, err := NewClient(Config{PackageDir: dir, APIVersion: APIVersionV2})
		require.NoError(t, err)
		assert.Equal(t, compiler.FormatPipelineSpec, cli.Format())

		path, err := cli.Package(doc)
		require.NoError(t, err)
		b, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		var spec compiler.IRPipelineSpec
		require.NoError(t, yaml.Unmarshal(b, &spec))
		assert.Equal(t, "demo", spec.PipelineInfo.Name)
		assert.Contains(t, spec.Root.DAG.Tasks, "hello")
	})
}

func TestClient_Submit(t *testing.T) {
	dir, err := ioutil.TempDir("", "submit")
	require.NoError(t, err)
	path := filepath.Join(dir, "p1.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("kind: Workflow\n"), 0644))

	t.Run("v1 existing experiment", func(t *testing.T) {
		var created map[string]interface{}
		mux := http.NewServeMux()
		mux.HandleFunc("/apis/v1beta1/experiments", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer secret", r.Header.Get("authorization"))
			writeJSON(w, 200, map[string]interface{}{
				"experiments": []map[string]interface{}{{"id": "e0", "name": "Other"}, {"id": "e1", "name": "Default"}},
			})
		})
		mux.HandleFunc("/apis/v1beta1/runs", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			writeJSON(w, 200, map[string]interface{}{"run": map[string]interface{}{"id": "r1"}})
		})
		cli, srv := newTestClient(t, mux, Config{Token: "secret"})
		defer srv.Close()

		h, err := cli.Submit(context.Background(), path, "Run demo", "")
		require.NoError(t, err)
		assert.Equal(t, RunHandle{RunID: "r1", RunName: "Run demo", ExperimentID: "e1"}, h)
		assert.Equal(t, "Run demo", created["name"])
		assert.JSONEq(t, `{"kind":"Workflow"}`, created["pipeline_spec"].(map[string]interface{})["workflow_manifest"].(string))
	})

	t.Run("v2 creates experiment", func(t *testing.T) {
		var created map[string]interface{}
		mux := http.NewServeMux()
		mux.HandleFunc("/apis/v2beta1/experiments", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeJSON(w, 200, map[string]interface{}{})
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "exp", body["display_name"])
			writeJSON(w, 200, map[string]interface{}{"experiment_id": "e2", "display_name": "exp"})
		})
		mux.HandleFunc("/apis/v2beta1/runs", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			writeJSON(w, 200, map[string]interface{}{"run_id": "r2"})
		})
		cli, srv := newTestClient(t, mux, Config{APIVersion: APIVersionV2})
		defer srv.Close()

		h, err := cli.Submit(context.Background(), path, "Run demo", "exp")
		require.NoError(t, err)
		assert.Equal(t, "r2", h.RunID)
		assert.Equal(t, "e2", created["experiment_id"])
		assert.Equal(t, map[string]interface{}{"kind": "Workflow"}, created["pipeline_spec"])
	})

	t.Run("unauthorized", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 401, map[string]string{"error": "bad token"})
		})
		cli, srv := newTestClient(t, h, Config{})
		defer srv.Close()

		_, err := cli.Submit(context.Background(), path, "Run demo", "")
		require.Error(t, err)
		assert.True(t, IsTransport(err))
	})
}

func TestClient_GetRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/apis/v1beta1/runs/r1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"run": map[string]interface{}{"id": "r1", "status": "Running"}})
	})
	mux.HandleFunc("/apis/v1beta1/runs/boom", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]string{"error": "internal"})
	})
	cli, srv := newTestClient(t, mux, Config{RetryMax: 0})
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		run, err := cli.GetRun(context.Background(), "r1")
		require.NoError(t, err)
		id, ok := RunID(run)
		assert.True(t, ok)
		assert.Equal(t, "r1", id)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := cli.GetRun(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("server error", func(t *testing.T) {
		_, err := cli.GetRun(context.Background(), "boom")
		require.Error(t, err)
		httpErr, ok := err.(HTTPError)
		require.True(t, ok)
		assert.Equal(t, 500, httpErr.StatusCode)
		assert.Equal(t, "internal", httpErr.Message)
	})

	t.Run("unreachable", func(t *testing.T) {
		down, err := NewClient(Config{Endpoint: "http://127.0.0.1:1", RetryMax: 0})
		require.NoError(t, err)
		_, err = down.GetRun(context.Background(), "r1")
		require.Error(t, err)
		assert.True(t, IsTransport(err))
	})
}

func TestClient_ListTaskRuns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/apis/v1beta1/task_runs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "r1", r.URL.Query().Get("run_id"))
		writeJSON(w, 200, map[string]interface{}{"task_runs": []interface{}{map[string]interface{}{"name": "train", "state": "RUNNING"}}})
	})
	cli, srv := newTestClient(t, mux, Config{})
	defer srv.Close()

	res, err := cli.ListTaskRuns(context.Background(), "r1")
	require.NoError(t, err)
	assert.Contains(t, res, "task_runs")
}

func TestRunID(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		id      string
		found   bool
	}{
		{"run_id", map[string]interface{}{"run_id": "a"}, "a", true},
		{"run.id", map[string]interface{}{"run": map[string]interface{}{"id": "b"}}, "b", true},
		{"id", map[string]interface{}{"id": "c"}, "c", true},
		{"priority", map[string]interface{}{"id": "c", "run_id": "a"}, "a", true},
		{"none", map[string]interface{}{"name": "x"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := RunID(tt.payload)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}
