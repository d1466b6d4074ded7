package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/maps"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// RunHandle identifies a submitted run.
type RunHandle struct {
	RunID        string `json:"run_id"`
	RunName      string `json:"run_name"`
	ExperimentID string `json:"experiment_id"`
}

// Client talks to the pipelines platform REST API.
type Client struct {
	httpcli *retryablehttp.Client
	conf    Config
	base    string
	token   string
}

// NewClient returns a platform client. Unset configuration values take their default.
// When no token is configured, it is looked up in the kubeconfig or the in-cluster service account.
func NewClient(conf Config) (*Client, error) {
	conf = conf.withDefaults()
	if conf.APIVersion != APIVersionV1 && conf.APIVersion != APIVersionV2 {
		return nil, errors.Errorf("unsupported api version %s", conf.APIVersion)
	}
	if _, err := url.Parse(conf.Endpoint); err != nil {
		return nil, errors.Wrapf(err, "invalid endpoint %s", conf.Endpoint)
	}

	token, err := discoverToken(conf)
	if err != nil {
		return nil, err
	}

	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	httpcli.RetryMax = conf.RetryMax
	httpcli.HTTPClient.Timeout = conf.Timeout
	httpcli.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		httpcli: httpcli,
		conf:    conf,
		base:    strings.TrimRight(conf.Endpoint, "/") + "/apis/" + conf.APIVersion,
		token:   token,
	}, nil
}

func discoverToken(conf Config) (string, error) {
	if conf.Token != "" {
		return conf.Token, nil
	}
	var rc *rest.Config
	var err error
	switch {
	case conf.InCluster:
		rc, err = rest.InClusterConfig()
	case conf.Kubeconfig != "":
		rc, err = clientcmd.BuildConfigFromFlags("", conf.Kubeconfig)
	default:
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "cannot load kubernetes credentials")
	}
	if rc.BearerToken != "" {
		return rc.BearerToken, nil
	}
	if rc.BearerTokenFile != "" {
		b, err := ioutil.ReadFile(rc.BearerTokenFile)
		if err != nil {
			return "", errors.Wrapf(err, "cannot read token file %s", rc.BearerTokenFile)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return "", nil
}

// Config returns the effective configuration.
func (cli *Client) Config() Config {
	return cli.conf
}

// Package writes the document into <package dir>/<pipeline id>.yaml and returns the file path.
// The document is rendered in the format of the configured api version:
// an Argo workflow for v1beta1, a pipeline spec for v2beta1.
func (cli *Client) Package(doc *compiler.Document) (string, error) {
	b, err := doc.Render(cli.Format())
	if err != nil {
		return "", err
	}
	dir := cli.conf.PackageDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "cannot create directory %s", dir)
	}
	path := filepath.Join(dir, doc.Metadata.PipelineID+".yaml")
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return "", errors.Wrapf(err, "cannot write package %s", path)
	}
	return path, nil
}

// Format returns the document format the platform runs.
func (cli *Client) Format() compiler.Format {
	if cli.conf.APIVersion == APIVersionV2 {
		return compiler.FormatPipelineSpec
	}
	return compiler.FormatWorkflow
}

// do sends the request and decodes the JSON answer into out if not nil.
func (cli *Client) do(ctx context.Context, op, method, u string, body interface{}, out interface{}) error {
	var raw interface{}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "cannot marshal request")
		}
		raw = b
	}
	req, err := retryablehttp.NewRequest(method, u, raw)
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	if cli.token != "" {
		req.Header.Set("authorization", "Bearer "+cli.token)
	}

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(readMessage(resp.Body))}
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound{op}
	case resp.StatusCode >= 400:
		return HTTPError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "cannot decode response of %s", op)
	}
	return nil
}

func readMessage(r io.Reader) string {
	b, err := ioutil.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var m map[string]interface{}
	if json.Unmarshal(b, &m) == nil {
		if s, ok := maps.FirstString(m, "error", "message"); ok {
			return s
		}
	}
	return string(bytes.TrimSpace(b))
}

// GetRun returns the raw run payload.
func (cli *Client) GetRun(ctx context.Context, runID string) (map[string]interface{}, error) {
	res := make(map[string]interface{})
	op := fmt.Sprintf("get run %s", runID)
	if err := cli.do(ctx, op, http.MethodGet, cli.base+"/runs/"+url.PathEscape(runID), nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListTaskRuns returns the raw task listing of a run.
func (cli *Client) ListTaskRuns(ctx context.Context, runID string) (interface{}, error) {
	var res interface{}
	u := cli.base + cli.conf.TaskRunsPath + "?run_id=" + url.QueryEscape(runID)
	if err := cli.do(ctx, fmt.Sprintf("list task runs of %s", runID), http.MethodGet, u, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// RunID extracts the run id of a run payload. It tolerates run_id, run.id and id.
func RunID(payload map[string]interface{}) (string, bool) {
	return maps.FirstString(payload, "run_id", "run.id", "id")
}
