package config

import "time"

// JobxConfig configures the background job queue.
type JobxConfig struct {
	Concurrency       int           `yaml:"concurrency" validate:"min=1"`
	Queues            []string      `yaml:"queues" validate:"min=1,dive,required"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	DequeueTimeout    time.Duration `yaml:"dequeue_timeout"`
	DefaultRetryDelay time.Duration `yaml:"default_retry_delay"`
	MaxRetries        int           `yaml:"max_retries" validate:"min=0"`
	// RunInServer starts the workers inside the API process
	RunInServer bool `yaml:"run_in_server"`
}

func defaultJobxConfig() JobxConfig {
	return JobxConfig{
		Concurrency:       4,
		Queues:            []string{"notifications"},
		PollInterval:      time.Second,
		ShutdownTimeout:   30 * time.Second,
		DequeueTimeout:    5 * time.Second,
		DefaultRetryDelay: 30 * time.Second,
		MaxRetries:        3,
		RunInServer:       true,
	}
}

func (c *JobxConfig) applyEnv() {
	c.Concurrency = getEnvInt("JOBX_CONCURRENCY", c.Concurrency)
	c.Queues = getEnvStringSlice("JOBX_QUEUES", c.Queues)
	c.PollInterval = getEnvDuration("JOBX_POLL_INTERVAL", c.PollInterval)
	c.ShutdownTimeout = getEnvDuration("JOBX_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.DequeueTimeout = getEnvDuration("JOBX_DEQUEUE_TIMEOUT", c.DequeueTimeout)
	c.DefaultRetryDelay = getEnvDuration("JOBX_DEFAULT_RETRY_DELAY", c.DefaultRetryDelay)
	c.MaxRetries = getEnvInt("JOBX_MAX_RETRIES", c.MaxRetries)
	c.RunInServer = getEnvBool("JOBX_RUN_IN_SERVER", c.RunInServer)
}
