package client

import (
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
)

// DefaultServer is the controller URL used when none is configured.
const DefaultServer = "http://127.0.0.1:8080"

// Server is set by the --server flag and takes precedence over the environment.
var Server string

type config struct {
	Server string `env:"KFG_SERVER" envDefault:"http://127.0.0.1:8080"`
}

// New returns a new controller client
func New() (client.Client, error) {
	uri := Server
	if uri == "" {
		var conf config
		if err := env.Parse(&conf); err != nil {
			return nil, errors.Wrap(err, "cannot read client configuration")
		}
		uri = conf.Server
	}
	return client.NewClient(uri)
}
