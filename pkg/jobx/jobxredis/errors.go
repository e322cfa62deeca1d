package jobxredis

import "github.com/Abraxas-365/nccerp/pkg/errx"

var redisErrors = errx.NewRegistry("JOBX_REDIS")

var (
	ErrEnqueue  = redisErrors.Register("ENQUEUE", errx.TypeExternal, 502, "Could not enqueue job")
	ErrDequeue  = redisErrors.Register("DEQUEUE", errx.TypeExternal, 502, "Could not dequeue job")
	ErrStore    = redisErrors.Register("STORE", errx.TypeExternal, 502, "Could not store job state")
	ErrPromote  = redisErrors.Register("PROMOTE", errx.TypeExternal, 502, "Could not promote scheduled jobs")
	ErrNotFound = redisErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "Job not found")
	ErrCodec    = redisErrors.Register("CODEC", errx.TypeInternal, 500, "Job data could not be encoded")
)
