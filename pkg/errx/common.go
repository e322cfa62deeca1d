package errx

// Shorthand constructors for unregistered errors

func Internal(message string) *Error {
	return New(message, TypeInternal)
}

func Validation(message string) *Error {
	return New(message, TypeValidation)
}

func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

func Unauthorized(message string) *Error {
	return New(message, TypeAuthorization)
}

func Forbidden(message string) *Error {
	return New(message, TypeForbidden)
}

func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

func Business(message string) *Error {
	return New(message, TypeBusiness)
}

func External(message string) *Error {
	return New(message, TypeExternal)
}

// Response is the JSON body written for a failed request
type Response struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	Type      string                 `json:"type"`
	Status    int                    `json:"status"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     string                 `json:"underlying_error,omitempty"`
}

// ToResponse builds the response body. The cause is only included when debug is set.
func (e *Error) ToResponse(requestID string, debug bool) Response {
	resp := Response{
		Error:     e.Message,
		Code:      e.Code,
		Type:      string(e.Type),
		Status:    e.HTTPStatus,
		RequestID: requestID,
	}
	if len(e.Details) > 0 {
		resp.Details = e.Details
	}
	if debug && e.Err != nil {
		resp.Cause = e.Err.Error()
	}
	return resp
}
