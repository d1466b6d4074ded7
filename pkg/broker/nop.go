package broker

import (
	"github.com/qiuchen001/kubeflow-ground/pkg/events"
	"github.com/qiuchen001/kubeflow-ground/pkg/util/context"
)

// NopType Broker type that only logs events
const NopType Type = "nop"

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		return NewNopBroker(), nil
	}
	register(NopType, f, func() interface{} { return &struct{}{} })
}

type nop struct{}

// NewNopBroker returns a Broker that logs events and drops them.
func NewNopBroker() Broker {
	return nop{}
}

func (nop) Publish(ctx context.Context, evt events.Event) error {
	ctx.Logger().Debugf("dropping event %s", evt)
	return nil
}

func (nop) Close() error {
	return nil
}
