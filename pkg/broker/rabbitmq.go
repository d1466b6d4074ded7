package broker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/events"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
	"github.com/streadway/amqp"
)

const (
	// RabbitMQType Broker type RabbitMQ
	RabbitMQType Type = "rabbitmq"

	defaultExchange = "kubeflow-ground.runs"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asRabbitMQConf, isRabbitMQConf := c.(*RabbitMQConfig)
		if !isRabbitMQConf {
			return nil, errors.Errorf("given configuration struct is not type %T", &RabbitMQConfig{})
		}
		return NewRabbitMQBroker(ctx, *asRabbitMQConf)
	}
	register(RabbitMQType, f, func() interface{} { return &RabbitMQConfig{} })
}

type rabbitmq struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	config RabbitMQConfig
}

// RabbitMQConfig is configuration for rabbitmq broker implementation
type RabbitMQConfig struct {
	User     string `mapstructure:"user" env:"BROKER_RABBITMQ_USER"`
	Password string `mapstructure:"password" env:"BROKER_RABBITMQ_PASSWORD"`
	URI      string `mapstructure:"uri" env:"BROKER_RABBITMQ_URI"`
	Exchange string `mapstructure:"exchange" env:"BROKER_RABBITMQ_EXCHANGE"`
}

// NewRabbitMQBroker returns a Broker implementation based on RabbitMQ.
// Events are published to a durable headers exchange.
func NewRabbitMQBroker(ctx context.Context, conf RabbitMQConfig) (Broker, error) {
	if conf.Exchange == "" {
		conf.Exchange = defaultExchange
	}
	url := fmt.Sprintf("amqp://%s:%s@%s", conf.User, conf.Password, conf.URI)
	ctx.Logger().Infof("connecting to rabbitmq at '%s'", conf.URI)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rabbitmq at '%s'", conf.URI)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "cannot open channel to rabbitmq")
	}
	err = ch.ExchangeDeclare(
		conf.Exchange, // name
		"headers",     // kind
		true,          // durable
		false,         // auto delete
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "cannot declare exchange %s", conf.Exchange)
	}
	return &rabbitmq{
		conn:   conn,
		ch:     ch,
		config: conf,
	}, nil
}

func (q *rabbitmq) Publish(ctx context.Context, evt events.Event) error {
	ctx.Logger().Tracef("publishing event %s to exchange %s", evt, q.config.Exchange)
	headers := amqp.Table{
		api.HeaderPipelineID:    evt.PipelineID,
		api.HeaderRunID:         evt.RunID,
		api.HeaderCorrelationID: evt.CorrelationID,
		api.HeaderType:          string(evt.Type),
	}

	// Marshal body
	data := evt.Data
	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "cannot marshal event %s", evt)
	}

	ts := evt.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	err = q.ch.Publish(
		q.config.Exchange, // exchange
		"",                // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
			Timestamp:   ts,
		})
	return errors.Wrapf(err, "cannot publish event %s", evt)
}

func (q *rabbitmq) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	if err := q.conn.Close(); err != nil {
		return err
	}
	return nil
}
