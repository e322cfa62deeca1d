package notifxses

import "github.com/Abraxas-365/nccerp/pkg/errx"

var sesErrors = errx.NewRegistry("NOTIFX_SES")

var (
	ErrSendFailed = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SES send email failed")
	ErrRejected   = sesErrors.Register("REJECTED", errx.TypeBusiness, 422, "SES rejected the message")
)
