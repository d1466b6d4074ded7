package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

const (
	// IDParam is the param definition for component and pipeline ids
	IDParam = "id"
)

// Client is the API client that performs all operations to a kubeflow-ground controller
type Client interface {
	// CreateComponent saves a component and returns it with its id.
	CreateComponent(ctx context.Context, c api.Component) (api.Component, error)
	ListComponents(ctx context.Context) ([]api.Component, error)
	GetComponent(ctx context.Context, id string) (api.Component, error)
	DeleteComponent(ctx context.Context, id string) error

	// CreatePipeline saves a pipeline and returns it with its id.
	CreatePipeline(ctx context.Context, p api.Pipeline) (api.Pipeline, error)
	ListPipelines(ctx context.Context) ([]api.Pipeline, error)
	GetPipeline(ctx context.Context, id string) (api.Pipeline, error)
	DeletePipeline(ctx context.Context, id string) error

	// PipelineSpec returns the compiled document of a pipeline as YAML.
	PipelineSpec(ctx context.Context, id string) ([]byte, error)

	// Run compiles and submits a pipeline. It returns the run id.
	Run(ctx context.Context, id string) (RunResponse, error)

	// Status returns the status of the last run of a pipeline.
	Status(ctx context.Context, id string) (StatusResponse, error)
}

// NewClient creates a controller client
func NewClient(uri string) (Client, error) {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	httpcli.ErrorHandler = retryablehttp.PassthroughErrorHandler
	u := strings.TrimRight(uri, "/")
	return client{
		httpcli: httpcli,
		uri:     u,
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}

// do sends the request and decodes the response in out, unless out is nil.
// what names the requested resource in ErrNotFound.
func (cli client) do(ctx context.Context, method, path string, body interface{}, what string, out interface{}) error {
	var raw interface{}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "cannot marshal request")
		}
		raw = b
	}
	req, err := retryablehttp.NewRequest(method, cli.uri+path, raw)
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return responseError(resp, what)
	}
	if out == nil {
		return nil
	}
	if b, isBytes := out.(*[]byte); isBytes {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, resp.Body); err != nil {
			return errors.Wrap(err, "cannot read response")
		}
		*b = buf.Bytes()
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "cannot decode response")
	}
	return nil
}

func responseError(resp *http.Response, what string) error {
	var httpErr HTTPError
	decodeErr := json.NewDecoder(resp.Body).Decode(&httpErr)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound{what}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if decodeErr != nil {
			//Cannot decode error
			return ErrBadRequest{errors.New("bad request")}
		}
		return ErrBadRequest{httpErr}
	}
	if decodeErr != nil {
		return errors.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return errors.Wrapf(httpErr, "unexpected status code %d", resp.StatusCode)
}

func componentPath(id string) string {
	return fmt.Sprintf(componentPathFormat, id)
}

func pipelinePath(id string) string {
	return fmt.Sprintf(pipelinePathFormat, id)
}
