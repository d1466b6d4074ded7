package context

import (
	gocontext "context"
	"os"

	"github.com/sirupsen/logrus"
)

const envLogLevel = "LOG_LEVEL"

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv(envLogLevel)); err == nil {
		logger.SetLevel(lvl)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
}

// Context extends the regular golang context.Context interface with functionnalities such as access to logger.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	PipelineID() string
	RunID() string
	CorrelationID() string
	NodeID() string
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
	}
}

// FromContext returns a new context from the given go context.
// If the given context is already a Context, it is returned as is.
func FromContext(c gocontext.Context) Context {
	if asCtx, isCtx := c.(Context); isCtx {
		return asCtx
	}
	return ctx{
		Context: c,
	}
}

// WithPipelineID returns a copy of the context with a pipelineID.
func WithPipelineID(c Context, pipelineID string) Context {
	return ctx{
		c,
		pipelineID,
		c.RunID(),
		c.CorrelationID(),
		c.NodeID(),
	}
}

// WithRunID returns a copy of the context with a runID.
func WithRunID(c Context, runID string) Context {
	return ctx{
		c,
		c.PipelineID(),
		runID,
		c.CorrelationID(),
		c.NodeID(),
	}
}

// WithCorrelationID returns a copy of the context with a correlationID.
func WithCorrelationID(c Context, correlationID string) Context {
	return ctx{
		c,
		c.PipelineID(),
		c.RunID(),
		correlationID,
		c.NodeID(),
	}
}

// WithNodeID returns a copy of the context with a nodeID.
func WithNodeID(c Context, nodeID string) Context {
	return ctx{
		c,
		c.PipelineID(),
		c.RunID(),
		c.CorrelationID(),
		nodeID,
	}
}

type ctx struct {
	gocontext.Context
	pipelineID    string
	runID         string
	correlationID string
	nodeID        string
}

// Logger returns the shared logger with the context fields attached.
func (c ctx) Logger() *logrus.Entry {
	e := logrus.NewEntry(logger)
	if c.pipelineID != "" {
		e = e.WithField("pipeline_id", c.pipelineID)
	}
	if c.runID != "" {
		e = e.WithField("run_id", c.runID)
	}
	if c.correlationID != "" {
		e = e.WithField("correlation_id", c.correlationID)
	}
	if c.nodeID != "" {
		e = e.WithField("node_id", c.nodeID)
	}
	return e
}

// StandardLogger returns the logger used by all contexts.
func StandardLogger() *logrus.Logger {
	return logger
}

func (c ctx) PipelineID() string {
	return c.pipelineID
}

func (c ctx) RunID() string {
	return c.runID
}

func (c ctx) CorrelationID() string {
	return c.correlationID
}

func (c ctx) NodeID() string {
	return c.nodeID
}
