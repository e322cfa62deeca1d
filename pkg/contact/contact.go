// Package contact keeps the ANO contact book managed from the admin dashboard.
package contact

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
)

type ContactID string

func (c ContactID) String() string { return string(c) }

type AnoContact struct {
	ID             ContactID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Rank           string    `json:"rank"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	whatsAppPattern = regexp.MustCompile(`^\+[\d\s\-()]+$`)
)

type ContactRequest struct {
	Email          string `json:"email" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Rank           string `json:"rank" validate:"required"`
	WhatsAppNumber string `json:"whatsapp_number" validate:"required"`
}

// Normalize trims every field and lowercases the email
func (r *ContactRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Rank = strings.TrimSpace(r.Rank)
	r.WhatsAppNumber = strings.TrimSpace(r.WhatsAppNumber)
}

// CheckFormats validates the email and WhatsApp number shapes
func (r *ContactRequest) CheckFormats() error {
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidContact("email", "invalid email format")
	}
	if !whatsAppPattern.MatchString(r.WhatsAppNumber) {
		return ErrInvalidContact("whatsapp_number", "must start with + and contain only digits, spaces, dashes and parentheses")
	}
	return nil
}

var ErrRegistry = errx.NewRegistry("CONTACT")

var (
	CodeContactNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Contact not found")
	CodeInvalidContact  = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid contact")
	CodeEmailTaken      = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "A contact with this email already exists")
)

func ErrContactNotFound() *errx.Error {
	return ErrRegistry.New(CodeContactNotFound)
}

func ErrInvalidContact(field, reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidContact, reason).WithDetail("field", field)
}

func ErrEmailTaken() *errx.Error {
	return ErrRegistry.New(CodeEmailTaken)
}
