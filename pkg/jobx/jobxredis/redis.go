// Package jobxredis stores jobx queues in Redis. Ready jobs sit in a list per
// queue, delayed and retrying jobs in a sorted set scored by run time, and the
// job state itself under its own key.
package jobxredis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/jobx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Queue struct {
	rdb       redis.UniversalClient
	prefix    string
	finishTTL time.Duration
}

type Option func(*Queue)

// WithPrefix namespaces every key. Defaults to "jobx".
func WithPrefix(p string) Option {
	return func(q *Queue) {
		if p != "" {
			q.prefix = p
		}
	}
}

// WithFinishedTTL expires completed and failed jobs after d. Zero keeps them.
func WithFinishedTTL(d time.Duration) Option {
	return func(q *Queue) { q.finishTTL = d }
}

func New(rdb redis.UniversalClient, opts ...Option) *Queue {
	q := &Queue{rdb: rdb, prefix: "jobx", finishTTL: 7 * 24 * time.Hour}
	for _, o := range opts {
		o(q)
	}
	return q
}

var _ jobx.Queue = (*Queue)(nil)

func (q *Queue) readyKey(name string) string     { return q.prefix + ":queue:" + name }
func (q *Queue) scheduledKey(name string) string { return q.prefix + ":scheduled:" + name }
func (q *Queue) jobKey(id string) string         { return q.prefix + ":job:" + id }

func newInfo(job jobx.Job) jobx.JobInfo {
	now := time.Now().UTC()
	return jobx.JobInfo{
		ID:         uuid.NewString(),
		Type:       job.Type,
		Queue:      job.Queue,
		Payload:    job.Payload,
		Status:     jobx.JobStatusPending,
		MaxRetries: job.MaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (q *Queue) Enqueue(ctx context.Context, job jobx.Job) (string, error) {
	info := newInfo(job)
	data, err := json.Marshal(info)
	if err != nil {
		return "", redisErrors.NewWithCause(ErrCodec, err)
	}

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.jobKey(info.ID), data, 0)
		pipe.LPush(ctx, q.readyKey(job.Queue), info.ID)
		return nil
	})
	if err != nil {
		return "", redisErrors.NewWithCause(ErrEnqueue, err).WithDetail("queue", job.Queue)
	}
	return info.ID, nil
}

func (q *Queue) EnqueueDelayed(ctx context.Context, job jobx.Job, delay time.Duration) (string, error) {
	info := newInfo(job)
	data, err := json.Marshal(info)
	if err != nil {
		return "", redisErrors.NewWithCause(ErrCodec, err)
	}

	runAt := float64(info.CreatedAt.Add(delay).Unix())
	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.jobKey(info.ID), data, 0)
		pipe.ZAdd(ctx, q.scheduledKey(job.Queue), redis.Z{Score: runAt, Member: info.ID})
		return nil
	})
	if err != nil {
		return "", redisErrors.NewWithCause(ErrEnqueue, err).
			WithDetail("queue", job.Queue).
			WithDetail("delay", delay.String())
	}
	return info.ID, nil
}

func (q *Queue) GetJob(ctx context.Context, jobID string) (*jobx.JobInfo, error) {
	data, err := q.rdb.Get(ctx, q.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, redisErrors.New(ErrNotFound).WithDetail("job_id", jobID)
	}
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrStore, err).WithDetail("job_id", jobID)
	}

	var info jobx.JobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, redisErrors.NewWithCause(ErrCodec, err).WithDetail("job_id", jobID)
	}
	return &info, nil
}

func (q *Queue) save(ctx context.Context, info *jobx.JobInfo) error {
	info.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(info)
	if err != nil {
		return redisErrors.NewWithCause(ErrCodec, err).WithDetail("job_id", info.ID)
	}

	var ttl time.Duration
	if info.Terminal() {
		ttl = q.finishTTL
	}
	if err := q.rdb.Set(ctx, q.jobKey(info.ID), data, ttl).Err(); err != nil {
		return redisErrors.NewWithCause(ErrStore, err).WithDetail("job_id", info.ID)
	}
	return nil
}

// Dequeue blocks until a job is ready on one of queues or timeout passes.
// A nil job with nil error means nothing arrived.
func (q *Queue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobx.JobInfo, error) {
	keys := make([]string, len(queues))
	for i, name := range queues {
		keys[i] = q.readyKey(name)
	}

	res, err := q.rdb.BRPop(ctx, timeout, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, redisErrors.NewWithCause(ErrDequeue, err)
	}

	// res is [key, id]
	info, err := q.GetJob(ctx, res[1])
	if err != nil {
		return nil, err
	}
	info.Status = jobx.JobStatusActive
	info.Attempts++
	if err := q.save(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (q *Queue) Complete(ctx context.Context, jobID string, result []byte) error {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	info.Status = jobx.JobStatusCompleted
	info.Result = result
	info.Error = ""
	return q.save(ctx, info)
}

func (q *Queue) Fail(ctx context.Context, jobID string, errMsg string, retryable bool) (bool, error) {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}

	retry := retryable && info.Attempts < info.MaxRetries
	info.Status = jobx.JobStatusFailed
	if retry {
		info.Status = jobx.JobStatusRetrying
	}
	info.Error = errMsg

	if err := q.save(ctx, info); err != nil {
		return false, err
	}
	return retry, nil
}

func (q *Queue) Retry(ctx context.Context, jobID string, delay time.Duration) error {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	runAt := float64(time.Now().UTC().Add(delay).Unix())
	if err := q.rdb.ZAdd(ctx, q.scheduledKey(info.Queue), redis.Z{Score: runAt, Member: jobID}).Err(); err != nil {
		return redisErrors.NewWithCause(ErrEnqueue, err).WithDetail("job_id", jobID)
	}
	return nil
}

// promoteScript moves due members of the scheduled set onto the ready list atomically.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, id in ipairs(due) do
    redis.call('LPUSH', KEYS[2], id)
end
if #due > 0 then
    redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
end
return #due
`)

func (q *Queue) PromoteScheduled(ctx context.Context, queues []string) error {
	now := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	for _, name := range queues {
		err := promoteScript.Run(ctx, q.rdb, []string{q.scheduledKey(name), q.readyKey(name)}, now).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return redisErrors.NewWithCause(ErrPromote, err).WithDetail("queue", name)
		}
	}
	return nil
}
