// Package notifxconsole prints messages through logx instead of sending them.
package notifxconsole

import (
	"context"
	"strings"
	"sync"

	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/google/uuid"
)

// Provider implements both notifx channels for development. It keeps every
// message it was handed so tests can inspect them.
type Provider struct {
	mu       sync.Mutex
	whatsapp []notifx.WhatsAppMessage
	emails   []notifx.EmailMessage
}

func New() *Provider {
	return &Provider{}
}

var (
	_ notifx.WhatsAppSender = (*Provider)(nil)
	_ notifx.EmailSender    = (*Provider)(nil)
)

func (p *Provider) SendWhatsApp(_ context.Context, msg notifx.WhatsAppMessage, _ ...notifx.Option) (notifx.Receipt, error) {
	p.mu.Lock()
	p.whatsapp = append(p.whatsapp, msg)
	p.mu.Unlock()

	id := "console-" + uuid.NewString()
	logx.WithFields(logx.Fields{
		"to":         msg.To,
		"message_id": id,
		"chars":      len(msg.Body),
	}).Info("notifx/console: whatsapp sent (dev mode)")
	logx.Debugf("notifx/console: body:\n%s", msg.Body)

	return notifx.Receipt{MessageID: id, Status: "logged"}, nil
}

func (p *Provider) SendEmail(_ context.Context, msg notifx.EmailMessage, _ ...notifx.Option) (notifx.Receipt, error) {
	p.mu.Lock()
	p.emails = append(p.emails, msg)
	p.mu.Unlock()

	logx.WithFields(logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	}).Info("notifx/console: email sent (dev mode)")

	if msg.TextBody != "" {
		logx.Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}

	return notifx.Receipt{MessageID: "console-" + uuid.NewString(), Status: "logged"}, nil
}

// WhatsApp returns a copy of the messages sent so far.
func (p *Provider) WhatsApp() []notifx.WhatsAppMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifx.WhatsAppMessage(nil), p.whatsapp...)
}

// Emails returns a copy of the emails sent so far.
func (p *Provider) Emails() []notifx.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifx.EmailMessage(nil), p.emails...)
}
