package broker

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/events"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/config"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

const (
	envBrokerType = "BROKER_TYPE"
)

var (
	factories = make(map[Type]func(context.Context, interface{}) (Broker, error))
	configs   = make(map[Type]func() interface{})
)

func register(t Type, f func(context.Context, interface{}) (Broker, error), c func() interface{}) {
	factories[t] = f
	configs[t] = c
}

// Type is a string designing the implementation of Broker interface
type Type string

// Broker publishes run events.
type Broker interface {
	// Publish publishes the given event.
	Publish(ctx context.Context, evt events.Event) error

	// Close closes all connections.
	Close() error
}

// NewFromConfig returns a new instance of Broker based on configuration from config file and/or env variables.
// When no broker type is configured, events are only logged.
func NewFromConfig(ctx context.Context, configKey string) (Broker, error) {
	configTypeKey := configKey + ".type"
	// Get broker type
	var t string
	if typ := config.Get(configTypeKey); typ != nil {
		asString, isString := typ.(string)
		if !isString {
			return nil, errors.Errorf("config entry with key %s is not a string", configTypeKey)
		}
		t = asString
	} else {
		t = os.Getenv(envBrokerType)
	}
	if t == "" {
		ctx.Logger().Debugf("No broker type found neither in config with key %s nor env %s, events will only be logged", configTypeKey, envBrokerType)
		return NewNopBroker(), nil
	}

	typ := Type(strings.ToLower(t))
	newConfig, ok := configs[typ]
	if !ok {
		return nil, errors.Errorf("unknown broker type %s", typ)
	}
	v := newConfig()
	if err := config.Unmarshal(configKey, v); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal broker config")
	}

	return New(ctx, typ, v)
}

// New returns a new instance of Broker based on given configuration struct
func New(ctx context.Context, t Type, c interface{}) (Broker, error) {
	f, ok := factories[t]
	if !ok {
		return nil, errors.Errorf("unknown broker type %s", t)
	}

	return f(ctx, c)
}
