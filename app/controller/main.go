package main

import (
	gocontext "context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/broker"
	"github.com/qiuchen001/kubeflow-ground/pkg/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/qiuchen001/kubeflow-ground/pkg/platform"
	"github.com/qiuchen001/kubeflow-ground/pkg/status"
	"github.com/qiuchen001/kubeflow-ground/pkg/store"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/config"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

// ServerConfig is the http server configuration
type ServerConfig struct {
	Port string `mapstructure:"port" env:"PORT"`
}

func main() {
	// Create context, echo object and set logger
	ctx := context.Background()
	l := log.MyLogger{Logger: context.StandardLogger()}

	if err := config.ReadInConfig(); err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to read config"))
		os.Exit(1)
	}

	h, err := newHandlers(ctx)
	if err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to instantiate controller"))
		os.Exit(1)
	}
	defer h.broker.Close()

	srvConf := ServerConfig{Port: "8080"}
	if err := config.Unmarshal("server", &srvConf); err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to read server config"))
		os.Exit(1)
	}

	e := newServer(h)
	e.Logger = &l
	e.HideBanner = true
	e.HidePort = true

	e.Logger.Infof("http server started on 127.0.0.1:%s", srvConf.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", srvConf.Port)))
}

func newHandlers(ctx context.Context) (handlers, error) {
	storeConf := store.Config{}
	if err := config.Unmarshal("store", &storeConf); err != nil {
		return handlers{}, err
	}
	s, err := store.New(storeConf)
	if err != nil {
		return handlers{}, errors.Wrap(err, "failed to instantiate store")
	}

	platformConf := platform.DefaultConfig()
	if err := config.Unmarshal("platform", &platformConf); err != nil {
		return handlers{}, err
	}
	p, err := platform.NewClient(platformConf)
	if err != nil {
		return handlers{}, errors.Wrap(err, "failed to instantiate platform client")
	}

	compilerConf := compiler.Config{}
	if err := config.Unmarshal("compiler", &compilerConf); err != nil {
		return handlers{}, err
	}

	b, err := broker.NewFromConfig(ctx, "broker")
	if err != nil {
		return handlers{}, errors.Wrap(err, "failed to instantiate broker")
	}

	return handlers{
		store:      s,
		compiler:   compiler.New(compiler.WithConfig(compilerConf)),
		platform:   p,
		normalizer: status.New(p),
		broker:     b,
	}, nil
}

func newServer(h handlers) *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "kubeflow-ground")
	})

	e.POST(client.ComponentsPath, h.CreateComponent)
	e.GET(client.ComponentsPath, h.ListComponents)
	e.GET(client.ComponentPath, h.GetComponent)
	e.DELETE(client.ComponentPath, h.DeleteComponent)

	e.POST(client.PipelinesPath, h.CreatePipeline)
	e.GET(client.PipelinesPath, h.ListPipelines)
	e.GET(client.PipelinePath, h.GetPipeline)
	e.DELETE(client.PipelinePath, h.DeletePipeline)
	e.GET(client.PipelineSpecPath, h.PipelineSpec)
	e.POST(client.RunPath, h.Run)
	e.GET(client.StatusPath, h.Status)
	return e
}

// platformClient is the part of the platform client used by the handlers.
type platformClient interface {
	Package(doc *compiler.Document) (string, error)
	Submit(ctx gocontext.Context, path, runName, experiment string) (platform.RunHandle, error)
	GetRun(ctx gocontext.Context, runID string) (map[string]interface{}, error)
}

type handlers struct {
	store      store.Store
	compiler   *compiler.Compiler
	platform   platformClient
	normalizer *status.Normalizer
	broker     broker.Broker
}
