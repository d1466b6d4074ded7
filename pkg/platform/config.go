package platform

import "time"

// Supported API versions of the pipelines platform.
const (
	APIVersionV1 = "v1beta1"
	APIVersionV2 = "v2beta1"
)

// Config is the platform client configuration.
type Config struct {
	Endpoint     string        `mapstructure:"endpoint" env:"KFP_ENDPOINT"`
	APIVersion   string        `mapstructure:"apiVersion" env:"KFP_API_VERSION"`
	Token        string        `mapstructure:"token" env:"KFP_TOKEN"`
	Kubeconfig   string        `mapstructure:"kubeconfig" env:"KFP_KUBECONFIG"`
	InCluster    bool          `mapstructure:"inCluster" env:"KFP_IN_CLUSTER"`
	Timeout      time.Duration `mapstructure:"timeout" env:"KFP_TIMEOUT"`
	RetryMax     int           `mapstructure:"retryMax" env:"KFP_RETRY_MAX"`
	Experiment   string        `mapstructure:"experiment" env:"KFP_EXPERIMENT"`
	TaskRunsPath string        `mapstructure:"taskRunsPath" env:"KFP_TASK_RUNS_PATH"`
	PackageDir   string        `mapstructure:"packageDir" env:"KFP_PACKAGE_DIR"`
}

// DefaultConfig returns the configuration used for unset values.
func DefaultConfig() Config {
	return Config{
		Endpoint:     "http://localhost:30088",
		APIVersion:   APIVersionV1,
		Timeout:      30 * time.Second,
		RetryMax:     3,
		Experiment:   "Default",
		TaskRunsPath: "/task_runs",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.APIVersion == "" {
		c.APIVersion = d.APIVersion
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.Experiment == "" {
		c.Experiment = d.Experiment
	}
	if c.TaskRunsPath == "" {
		c.TaskRunsPath = d.TaskRunsPath
	}
	return c
}
