package camp

import (
	"net/http"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CAMP")

var (
	CodeCampNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Camp notification not found")
	CodeInvalidTransition = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, http.StatusUnprocessableEntity, "Camp status cannot change this way")
	CodeNoVacancy         = ErrRegistry.Register("NO_VACANCY", errx.TypeValidation, http.StatusBadRequest, "Assign vacancies to at least one college")
	CodeInvalidVacancy    = ErrRegistry.Register("INVALID_VACANCY", errx.TypeValidation, http.StatusBadRequest, "Vacancy counts cannot be negative")
	CodeLetterType        = ErrRegistry.Register("LETTER_TYPE", errx.TypeValidation, http.StatusBadRequest, "Official letter must be a PDF, JPEG or PNG file")
	CodeLetterTooLarge    = ErrRegistry.Register("LETTER_TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "Official letter must be 5MB or smaller")
	CodeNoLetter          = ErrRegistry.Register("NO_LETTER", errx.TypeNotFound, http.StatusNotFound, "Camp has no official letter")
	CodeUnknownCollege    = ErrRegistry.Register("UNKNOWN_COLLEGE", errx.TypeValidation, http.StatusBadRequest, "Vacancy refers to an unknown college")
	CodeCampInUse         = ErrRegistry.Register("IN_USE", errx.TypeConflict, http.StatusConflict, "Camp has cadet submissions and cannot be deleted; close it instead")
)

func ErrCampNotFound() *errx.Error {
	return ErrRegistry.New(CodeCampNotFound)
}

func ErrInvalidTransition(from, to Status) *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition).WithDetail("from", from).WithDetail("to", to)
}

func ErrNoVacancy() *errx.Error {
	return ErrRegistry.New(CodeNoVacancy)
}

func ErrInvalidVacancy() *errx.Error {
	return ErrRegistry.New(CodeInvalidVacancy)
}

func ErrLetterType() *errx.Error {
	return ErrRegistry.New(CodeLetterType)
}

func ErrLetterTooLarge() *errx.Error {
	return ErrRegistry.New(CodeLetterTooLarge)
}

func ErrNoLetter() *errx.Error {
	return ErrRegistry.New(CodeNoLetter)
}

func ErrUnknownCollege() *errx.Error {
	return ErrRegistry.New(CodeUnknownCollege)
}

func ErrCampInUse() *errx.Error {
	return ErrRegistry.New(CodeCampInUse)
}
