package jobx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/logx"
)

// HandlerFunc processes a job. Return nil on success, an error to trigger retry/fail.
type HandlerFunc func(ctx context.Context, job *JobInfo) error

// JobEnqueuer enqueues jobs for processing.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, job Job) (string, error)
	EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error)
}

// JobStatusReader reads job status.
type JobStatusReader interface {
	GetJob(ctx context.Context, jobID string) (*JobInfo, error)
}

// JobProcessor provides backend operations for the worker loop.
type JobProcessor interface {
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*JobInfo, error)
	Complete(ctx context.Context, jobID string, result []byte) error
	// Fail records the failure. It reports true when the job has attempts left
	// and retryable is set.
	Fail(ctx context.Context, jobID string, errMsg string, retryable bool) (retry bool, err error)
	Retry(ctx context.Context, jobID string, delay time.Duration) error
	PromoteScheduled(ctx context.Context, queues []string) error
}

// Queue combines all backend operations.
type Queue interface {
	JobEnqueuer
	JobStatusReader
	JobProcessor
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Client is the main entry point for enqueuing and processing jobs.
type Client struct {
	queue    Queue
	opts     WorkerOptions
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
	running  bool
}

func NewClient(queue Queue, options ...WorkerOption) *Client {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Client{
		queue:    queue,
		opts:     opts,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a handler for a given job type.
func (c *Client) Register(jobType string, handler HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[jobType] = handler
}

// Handles reports whether a handler is registered for jobType
func (c *Client) Handles(jobType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[jobType]
	return ok
}

func (c *Client) Enqueue(ctx context.Context, job Job) (string, error) {
	return c.queue.Enqueue(ctx, c.withDefaults(job))
}

func (c *Client) EnqueueDelayed(ctx context.Context, job Job, delay time.Duration) (string, error) {
	return c.queue.EnqueueDelayed(ctx, c.withDefaults(job), delay)
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*JobInfo, error) {
	return c.queue.GetJob(ctx, jobID)
}

func (c *Client) withDefaults(job Job) Job {
	if job.Queue == "" {
		job.Queue = c.opts.Queues[0]
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = c.opts.DefaultMaxRetries
	}
	return job
}

// Start begins processing jobs. It blocks until ctx is cancelled.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return jobxErrors.New(ErrAlreadyRunning)
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	logx.WithFields(logx.Fields{
		"workers": c.opts.Concurrency,
		"queues":  c.opts.Queues,
	}).Info("jobx: starting workers")

	// Workers get their own context so in-flight jobs can finish after ctx is done.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.schedulerLoop(ctx)
	}()

	for i := range c.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.workerLoop(ctx, workCtx, id)
		}(i)
	}

	<-ctx.Done()
	logx.Info("jobx: shutting down workers...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("jobx: all workers stopped")
	case <-time.After(c.opts.ShutdownTimeout):
		cancelWork()
		logx.Warn("jobx: shutdown timed out, some jobs may not have completed")
	}

	return nil
}

func (c *Client) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.queue.PromoteScheduled(ctx, c.opts.Queues); err != nil {
				if ctx.Err() != nil {
					return
				}
				logx.WithError(err).Warn("jobx: failed to promote scheduled jobs")
			}
		}
	}
}

func (c *Client) workerLoop(ctx, workCtx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := c.queue.Dequeue(ctx, c.opts.Queues, c.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.WithError(err).Warnf("jobx: worker %d dequeue error", id)
			time.Sleep(c.opts.PollInterval)
			continue
		}
		if job == nil {
			continue
		}

		c.ProcessJob(workCtx, job)
	}
}

// ProcessJob runs the handler for one dequeued job and records the outcome.
// Exported so callers can drive a queue synchronously.
func (c *Client) ProcessJob(ctx context.Context, job *JobInfo) {
	c.mu.RLock()
	handler, ok := c.handlers[job.Type]
	c.mu.RUnlock()

	log := logx.WithFields(logx.Fields{"job_id": job.ID, "job_type": job.Type, "attempt": job.Attempts})

	if !ok {
		log.Warn("jobx: no handler for job type")
		_, _ = c.queue.Fail(ctx, job.ID, jobxErrors.New(ErrNoHandler).Error(), false)
		return
	}

	runCtx := ctx
	if c.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.opts.JobTimeout)
		defer cancel()
	}

	started := time.Now()
	if err := handler(runCtx, job); err != nil {
		log.WithError(err).Warn("jobx: job failed")

		shouldRetry, failErr := c.queue.Fail(ctx, job.ID, err.Error(), !IsPermanent(err))
		if failErr != nil {
			log.WithError(failErr).Error("jobx: failed to mark job as failed")
			return
		}

		if shouldRetry {
			if retryErr := c.queue.Retry(ctx, job.ID, c.retryDelay(job.Attempts)); retryErr != nil {
				log.WithError(retryErr).Error("jobx: failed to retry job")
			}
		}
		return
	}

	if err := c.queue.Complete(ctx, job.ID, nil); err != nil {
		log.WithError(err).Error("jobx: failed to complete job")
		return
	}
	log.WithField("took", time.Since(started).String()).Debug("jobx: job completed")
}

// retryDelay doubles the base delay per attempt, capped at MaxRetryDelay
func (c *Client) retryDelay(attempts int) time.Duration {
	d := c.opts.DefaultRetryDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if c.opts.MaxRetryDelay > 0 && d >= c.opts.MaxRetryDelay {
			return c.opts.MaxRetryDelay
		}
	}
	return d
}
