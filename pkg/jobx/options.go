package jobx

import "time"

// WorkerOptions configures the job processing client.
type WorkerOptions struct {
	Queues            []string
	Concurrency       int
	PollInterval      time.Duration
	ShutdownTimeout   time.Duration
	DequeueTimeout    time.Duration
	DefaultRetryDelay time.Duration
	MaxRetryDelay     time.Duration
	DefaultMaxRetries int
	JobTimeout        time.Duration
}

func defaultWorkerOptions() WorkerOptions {
	return WorkerOptions{
		Queues:            []string{"notifications"},
		Concurrency:       4,
		PollInterval:      time.Second,
		ShutdownTimeout:   30 * time.Second,
		DequeueTimeout:    5 * time.Second,
		DefaultRetryDelay: 30 * time.Second,
		MaxRetryDelay:     30 * time.Minute,
		DefaultMaxRetries: 3,
		JobTimeout:        2 * time.Minute,
	}
}

// WorkerOption is a functional option for configuring the client.
type WorkerOption func(*WorkerOptions)

func WithQueues(queues ...string) WorkerOption {
	return func(o *WorkerOptions) {
		if len(queues) > 0 {
			o.Queues = queues
		}
	}
}

func WithConcurrency(n int) WorkerOption {
	return func(o *WorkerOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) { o.PollInterval = d }
}

func WithShutdownTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) { o.ShutdownTimeout = d }
}

func WithDequeueTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) { o.DequeueTimeout = d }
}

// WithDefaultRetryDelay sets the delay before the first retry; later retries double it.
func WithDefaultRetryDelay(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) { o.DefaultRetryDelay = d }
}

func WithDefaultMaxRetries(n int) WorkerOption {
	return func(o *WorkerOptions) {
		if n >= 0 {
			o.DefaultMaxRetries = n
		}
	}
}

// WithJobTimeout bounds a single handler run
func WithJobTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) { o.JobTimeout = d }
}
