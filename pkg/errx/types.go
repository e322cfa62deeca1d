package errx

import "net/http"

// Type represents the category of error
type Type string

const (
	TypeInternal      Type = "INTERNAL"
	TypeValidation    Type = "VALIDATION"
	TypeAuthorization Type = "AUTHORIZATION"
	// TypeForbidden is an authenticated caller acting outside its role
	TypeForbidden Type = "FORBIDDEN"
	TypeNotFound  Type = "NOT_FOUND"
	TypeConflict  Type = "CONFLICT"
	// TypeBusiness is a rule violation on otherwise well-formed input
	TypeBusiness Type = "BUSINESS"
	TypeExternal Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}

// HTTPStatus returns the default status code for the type
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
