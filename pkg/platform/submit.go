package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/maps"
	"sigs.k8s.io/yaml"
)

type resourceKey struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type resourceReference struct {
	Key          resourceKey `json:"key"`
	Relationship string      `json:"relationship"`
}

type v1Run struct {
	Name               string              `json:"name"`
	PipelineSpec       v1PipelineSpec      `json:"pipeline_spec"`
	ResourceReferences []resourceReference `json:"resource_references,omitempty"`
}

type v1PipelineSpec struct {
	WorkflowManifest string `json:"workflow_manifest"`
}

type v2Run struct {
	DisplayName  string          `json:"display_name"`
	ExperimentID string          `json:"experiment_id,omitempty"`
	PipelineSpec json.RawMessage `json:"pipeline_spec"`
}

// Submit creates a run of the packaged document found at path.
// If experiment is empty, the configured experiment is used. It is created when missing.
func (cli *Client) Submit(ctx context.Context, path, runName, experiment string) (RunHandle, error) {
	pkg, err := ioutil.ReadFile(path)
	if err != nil {
		return RunHandle{}, errors.Wrapf(err, "cannot read package %s", path)
	}
	if experiment == "" {
		experiment = cli.conf.Experiment
	}
	expID, err := cli.Experiment(ctx, experiment)
	if err != nil {
		return RunHandle{}, err
	}

	spec, err := yaml.YAMLToJSON(pkg)
	if err != nil {
		return RunHandle{}, errors.Wrapf(err, "cannot convert package %s", path)
	}
	var body interface{}
	if cli.conf.APIVersion == APIVersionV2 {
		body = v2Run{DisplayName: runName, ExperimentID: expID, PipelineSpec: spec}
	} else {
		body = v1Run{
			Name:         runName,
			PipelineSpec: v1PipelineSpec{WorkflowManifest: string(spec)},
			ResourceReferences: []resourceReference{{
				Key:          resourceKey{Type: "EXPERIMENT", ID: expID},
				Relationship: "OWNER",
			}},
		}
	}

	res := make(map[string]interface{})
	if err := cli.do(ctx, fmt.Sprintf("create run %s", runName), http.MethodPost, cli.base+"/runs", body, &res); err != nil {
		return RunHandle{}, err
	}
	runID, ok := RunID(res)
	if !ok {
		return RunHandle{}, errors.Errorf("no run id in response of run %s", runName)
	}
	return RunHandle{RunID: runID, RunName: runName, ExperimentID: expID}, nil
}

// Experiment returns the id of the experiment with the given name, creating it if needed.
func (cli *Client) Experiment(ctx context.Context, name string) (string, error) {
	nameKey, idKey := "name", "id"
	if cli.conf.APIVersion == APIVersionV2 {
		nameKey, idKey = "display_name", "experiment_id"
	}

	var list struct {
		Experiments   []map[string]interface{} `json:"experiments"`
		NextPageToken string                   `json:"next_page_token"`
	}
	token := ""
	for {
		list.Experiments, list.NextPageToken = nil, ""
		u := cli.base + "/experiments?page_size=100"
		if token != "" {
			u += "&page_token=" + url.QueryEscape(token)
		}
		if err := cli.do(ctx, "list experiments", http.MethodGet, u, nil, &list); err != nil {
			return "", err
		}
		for _, e := range list.Experiments {
			if n, _ := maps.GetString(e, nameKey); n == name {
				if id, ok := maps.GetString(e, idKey); ok {
					return id, nil
				}
			}
		}
		if list.NextPageToken == "" {
			break
		}
		token = list.NextPageToken
	}

	res := make(map[string]interface{})
	body := map[string]string{nameKey: name}
	if err := cli.do(ctx, fmt.Sprintf("create experiment %s", name), http.MethodPost, cli.base+"/experiments", body, &res); err != nil {
		return "", err
	}
	id, ok := maps.GetString(res, idKey)
	if !ok {
		return "", errors.Errorf("no id in response of experiment %s", name)
	}
	return id, nil
}
