package notifx

import "github.com/Abraxas-365/nccerp/pkg/errx"

var notifxErrors = errx.NewRegistry("NOTIFX")

var (
	ErrSendFailed       = notifxErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "Failed to deliver message")
	ErrInvalidMessage   = notifxErrors.Register("INVALID_MESSAGE", errx.TypeValidation, 400, "Invalid message")
	ErrInvalidPhone     = notifxErrors.Register("INVALID_PHONE", errx.TypeValidation, 400, "Invalid phone number")
	ErrTemplateNotFound = notifxErrors.Register("TEMPLATE_NOT_FOUND", errx.TypeNotFound, 404, "Message template not found")
	ErrTemplateParse    = notifxErrors.Register("TEMPLATE_PARSE", errx.TypeValidation, 400, "Failed to parse message template")
	ErrTemplateRender   = notifxErrors.Register("TEMPLATE_RENDER", errx.TypeInternal, 500, "Failed to render message template")
	ErrNoProvider       = notifxErrors.Register("NO_PROVIDER", errx.TypeInternal, 500, "No provider configured for channel")
)

// IsInvalid reports whether err was rejected before reaching a provider
func IsInvalid(err error) bool {
	return errx.Is(err, notifxErrors.New(ErrInvalidMessage)) || errx.Is(err, notifxErrors.New(ErrInvalidPhone))
}
