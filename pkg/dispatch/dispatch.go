// Package dispatch turns camp announcements and selection outcomes into
// WhatsApp and email messages and delivers them.
package dispatch

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
)

const (
	ModeSync  = "sync"
	ModeQueue = "queue"

	// JobDeliver is the jobx type carrying a batch of rendered messages
	JobDeliver = "dispatch.deliver"
)

// Message is one rendered outbound message
type Message struct {
	Channel notifx.Channel `json:"channel"`
	To      string         `json:"to"`
	Name    string         `json:"name"`
	Subject string         `json:"subject,omitempty"`
	Body    string         `json:"body"`
}

// Batch is the payload of a JobDeliver job
type Batch struct {
	Reason   string    `json:"reason"`
	Messages []Message `json:"messages"`
}

type Sender interface {
	SendWhatsApp(ctx context.Context, msg notifx.WhatsAppMessage, opts ...notifx.Option) notifx.SendResult
	SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) notifx.SendResult
	EmailEnabled() bool
}

type Directory interface {
	ByColleges(ctx context.Context, names []string) ([]directory.Contact, error)
	CadetsByColleges(ctx context.Context, names []string) ([]directory.Contact, error)
}

// ContactBook holds admin-managed ANO details that take precedence over the sheet
type ContactBook interface {
	ByEmail(ctx context.Context, emails []string) (map[string]*contact.AnoContact, error)
}

type Colleges interface {
	FindByIDs(ctx context.Context, ids []kernel.CollegeID) ([]*college.College, error)
}

// Overlay replaces sheet details with the managed contact sharing the email
func Overlay(contacts []directory.Contact, managed map[string]*contact.AnoContact) []directory.Contact {
	out := make([]directory.Contact, len(contacts))
	for i, c := range contacts {
		if m, ok := managed[strings.ToLower(c.Email)]; ok {
			c.Name = m.Name
			c.Rank = m.Rank
			c.WhatsAppNumber = m.WhatsAppNumber
		}
		out[i] = c
	}
	return out
}

var ErrRegistry = errx.NewRegistry("DISPATCH")

var (
	CodeNotConfigured  = ErrRegistry.Register("NOT_CONFIGURED", errx.TypeInternal, http.StatusServiceUnavailable, "Messaging is not configured")
	CodeDeliveryFailed = ErrRegistry.Register("DELIVERY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Some messages could not be delivered")
	CodeNoQueue        = ErrRegistry.Register("NO_QUEUE", errx.TypeInternal, http.StatusInternalServerError, "Queue dispatch selected without a job queue")
)

func ErrNotConfigured(missing []string) *errx.Error {
	return ErrRegistry.New(CodeNotConfigured).WithDetail("missing", missing)
}

func ErrDeliveryFailed(failed, total int) *errx.Error {
	return ErrRegistry.New(CodeDeliveryFailed).WithDetail("failed", failed).WithDetail("total", total)
}

func ErrNoQueue() *errx.Error {
	return ErrRegistry.New(CodeNoQueue)
}
