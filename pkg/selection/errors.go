package selection

import (
	"net/http"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SELECTION")

var (
	CodeSubmissionNotFound = ErrRegistry.Register("SUBMISSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Submission not found")
	CodeCampNotOpen        = ErrRegistry.Register("CAMP_NOT_OPEN", errx.TypeBusiness, http.StatusUnprocessableEntity, "Camp is not accepting submissions")
	CodeCollegeNotAllotted = ErrRegistry.Register("COLLEGE_NOT_ALLOTTED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Camp has no vacancies for this college")
	CodeNoCadets           = ErrRegistry.Register("NO_CADETS", errx.TypeValidation, http.StatusBadRequest, "Submit at least one cadet")
	CodeOverVacancy        = ErrRegistry.Register("OVER_VACANCY", errx.TypeValidation, http.StatusBadRequest, "More cadets than the college's vacancies")
	CodeInvalidCadetIndex  = ErrRegistry.Register("INVALID_CADET_INDEX", errx.TypeValidation, http.StatusBadRequest, "Cadet index is out of range")
	CodeInvalidDecision    = ErrRegistry.Register("INVALID_DECISION", errx.TypeValidation, http.StatusBadRequest, "Decision must be selected, reserve or not-selected")
	CodeAlreadyFinalized   = ErrRegistry.Register("ALREADY_FINALIZED", errx.TypeBusiness, http.StatusConflict, "Submission is already finalized")
	CodeStaleSubmission    = ErrRegistry.Register("STALE_SUBMISSION", errx.TypeConflict, http.StatusConflict, "Submission changed since it was loaded")
	CodeNotOwner           = ErrRegistry.Register("NOT_OWNER", errx.TypeForbidden, http.StatusForbidden, "Submission belongs to another ANO")
	CodeNothingToFinalize  = ErrRegistry.Register("NOTHING_TO_FINALIZE", errx.TypeValidation, http.StatusBadRequest, "Choose at least one submission to finalize")
	CodeNoPicks            = ErrRegistry.Register("NO_PICKS", errx.TypeValidation, http.StatusBadRequest, "Pick at least one cadet")
	CodeUnknownCadet       = ErrRegistry.Register("UNKNOWN_CADET", errx.TypeValidation, http.StatusBadRequest, "Cadet is not part of the submission")
)

func ErrSubmissionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSubmissionNotFound)
}

func ErrCampNotOpen() *errx.Error {
	return ErrRegistry.New(CodeCampNotOpen)
}

func ErrCollegeNotAllotted() *errx.Error {
	return ErrRegistry.New(CodeCollegeNotAllotted)
}

func ErrNoCadets() *errx.Error {
	return ErrRegistry.New(CodeNoCadets)
}

func ErrOverVacancy(vacancy, got int) *errx.Error {
	return ErrRegistry.New(CodeOverVacancy).WithDetail("vacancy", vacancy).WithDetail("cadets", got)
}

func ErrInvalidCadetIndex(index int) *errx.Error {
	return ErrRegistry.New(CodeInvalidCadetIndex).WithDetail("cadet_index", index)
}

func ErrInvalidDecision() *errx.Error {
	return ErrRegistry.New(CodeInvalidDecision)
}

func ErrAlreadyFinalized() *errx.Error {
	return ErrRegistry.New(CodeAlreadyFinalized)
}

func ErrStaleSubmission() *errx.Error {
	return ErrRegistry.New(CodeStaleSubmission)
}

func ErrNotOwner() *errx.Error {
	return ErrRegistry.New(CodeNotOwner)
}

func ErrNothingToFinalize() *errx.Error {
	return ErrRegistry.New(CodeNothingToFinalize)
}

func ErrNoPicks() *errx.Error {
	return ErrRegistry.New(CodeNoPicks)
}

func ErrUnknownCadet(email string) *errx.Error {
	return ErrRegistry.New(CodeUnknownCadet).WithDetail("email", email)
}
