package jobx

import "github.com/Abraxas-365/nccerp/pkg/errx"

var jobxErrors = errx.NewRegistry("JOBX")

var (
	ErrNoHandler      = jobxErrors.Register("NO_HANDLER", errx.TypeValidation, 400, "No handler registered for job type")
	ErrInvalidJob     = jobxErrors.Register("INVALID_JOB", errx.TypeValidation, 400, "Invalid job definition")
	ErrInvalidPayload = jobxErrors.Register("INVALID_PAYLOAD", errx.TypeValidation, 400, "Job payload could not be decoded")
	ErrAlreadyRunning = jobxErrors.Register("ALREADY_RUNNING", errx.TypeConflict, 409, "Worker is already running")
)
