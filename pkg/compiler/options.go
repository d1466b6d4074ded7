package compiler

import "github.com/qiuchen001/kubeflow-ground/pkg/api"

const (
	// DefaultOutputStagingRoot is the directory prefix recognized as an output path placeholder.
	DefaultOutputStagingRoot = "/tmp/outputs"
	// DefaultSchedulingGroupPrefix prefixes the pipeline id to name the scheduling group.
	DefaultSchedulingGroupPrefix = "pipeline-"
	// DefaultArtifactType is the declared type of artifact ports.
	DefaultArtifactType = "Dataset"
	// DefaultParameterType is the declared type of parameter ports.
	DefaultParameterType = "string"
	// DefaultGPUResource is the resource name used for gpu limits when the component does not set one.
	DefaultGPUResource = "nvidia.com/gpu"
)

// Config is the compiler configuration
type Config struct {
	OutputStagingRoot     string `mapstructure:"outputStagingRoot" env:"OUTPUT_STAGING_ROOT"`
	SchedulerName         string `mapstructure:"schedulerName" env:"SCHEDULER_NAME"`
	SchedulingGroupPrefix string `mapstructure:"schedulingGroupPrefix" env:"SCHEDULING_GROUP_PREFIX"`
	ArtifactType          string `mapstructure:"artifactType"`
	ParameterType         string `mapstructure:"parameterType"`
}

// Option configures a Compiler.
type Option func(*Config)

// WithOutputStagingRoot sets the directory recognized in <root>/<output> argument tokens.
func WithOutputStagingRoot(root string) Option {
	return func(c *Config) {
		c.OutputStagingRoot = root
	}
}

// WithSchedulerName sets the alternate scheduler name.
func WithSchedulerName(name string) Option {
	return func(c *Config) {
		c.SchedulerName = name
	}
}

// WithSchedulingGroupPrefix sets the prefix of the scheduling group annotation.
func WithSchedulingGroupPrefix(prefix string) Option {
	return func(c *Config) {
		c.SchedulingGroupPrefix = prefix
	}
}

// WithArtifactType sets the type declared for artifact ports.
func WithArtifactType(t string) Option {
	return func(c *Config) {
		c.ArtifactType = t
	}
}

// WithParameterType sets the type declared for parameter ports.
func WithParameterType(t string) Option {
	return func(c *Config) {
		c.ParameterType = t
	}
}

// WithConfig applies every non empty value of the given configuration.
func WithConfig(conf Config) Option {
	return func(c *Config) {
		if conf.OutputStagingRoot != "" {
			c.OutputStagingRoot = conf.OutputStagingRoot
		}
		if conf.SchedulerName != "" {
			c.SchedulerName = conf.SchedulerName
		}
		if conf.SchedulingGroupPrefix != "" {
			c.SchedulingGroupPrefix = conf.SchedulingGroupPrefix
		}
		if conf.ArtifactType != "" {
			c.ArtifactType = conf.ArtifactType
		}
		if conf.ParameterType != "" {
			c.ParameterType = conf.ParameterType
		}
	}
}

func defaultConfig() Config {
	return Config{
		OutputStagingRoot:     DefaultOutputStagingRoot,
		SchedulerName:         api.SchedulerVolcano,
		SchedulingGroupPrefix: DefaultSchedulingGroupPrefix,
		ArtifactType:          DefaultArtifactType,
		ParameterType:         DefaultParameterType,
	}
}
