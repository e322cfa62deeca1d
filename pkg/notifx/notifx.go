// Package notifx delivers outbound messages over WhatsApp and email. Providers
// live in subpackages (notifxtwilio, notifxses, notifxconsole); Client
// validates messages and picks the provider for each channel.
package notifx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/asyncx"
	"github.com/Abraxas-365/nccerp/pkg/errx"
)

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) (Receipt, error)
}

// WhatsAppSender sends a single WhatsApp text message to an E.164 number.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage, opts ...Option) (Receipt, error)
}

// Client is the main entry point for sending notifications.
type Client struct {
	whatsapp    WhatsAppSender
	email       EmailSender
	countryCode string
	attempts    int
	retryDelay  time.Duration
}

type ClientOption func(*Client)

// WithEmail enables the email channel.
func WithEmail(s EmailSender) ClientOption {
	return func(c *Client) { c.email = s }
}

// WithCountryCode sets the prefix used for national numbers. Defaults to "91".
func WithCountryCode(code string) ClientOption {
	return func(c *Client) {
		if code != "" {
			c.countryCode = code
		}
	}
}

// WithRetry retries transient provider failures up to attempts times in total.
func WithRetry(attempts int, initialDelay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
			c.retryDelay = initialDelay
		}
	}
}

func NewClient(whatsapp WhatsAppSender, opts ...ClientOption) *Client {
	c := &Client{whatsapp: whatsapp, countryCode: "91", attempts: 1}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EmailEnabled reports whether an email provider is configured.
func (c *Client) EmailEnabled() bool { return c.email != nil }

// SendWhatsApp normalizes the recipient and sends the message.
func (c *Client) SendWhatsApp(ctx context.Context, msg WhatsAppMessage, opts ...Option) SendResult {
	res := SendResult{Channel: ChannelWhatsApp, To: msg.To}
	rec, err := c.sendWhatsApp(ctx, msg, opts...)
	return res.finish(rec, err)
}

func (c *Client) sendWhatsApp(ctx context.Context, msg WhatsAppMessage, opts ...Option) (Receipt, error) {
	if c.whatsapp == nil {
		return Receipt{}, notifxErrors.New(ErrNoProvider).WithDetail("channel", ChannelWhatsApp)
	}
	if strings.TrimSpace(msg.Body) == "" {
		return Receipt{}, notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty body")
	}
	to, err := NormalizePhone(msg.To, c.countryCode)
	if err != nil {
		return Receipt{}, err
	}
	msg.To = to
	return asyncx.RetryWithBackoff(ctx, c.attempts, c.retryDelay, Retryable, func(ctx context.Context) (Receipt, error) {
		return c.whatsapp.SendWhatsApp(ctx, msg, opts...)
	})
}

// SendEmail sends an email through the configured provider.
func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) SendResult {
	res := SendResult{Channel: ChannelEmail, To: strings.Join(msg.To, ",")}
	rec, err := c.sendEmail(ctx, msg, opts...)
	return res.finish(rec, err)
}

func (c *Client) sendEmail(ctx context.Context, msg EmailMessage, opts ...Option) (Receipt, error) {
	if c.email == nil {
		return Receipt{}, notifxErrors.New(ErrNoProvider).WithDetail("channel", ChannelEmail)
	}
	if len(msg.To) == 0 {
		return Receipt{}, notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return Receipt{}, notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	return asyncx.RetryWithBackoff(ctx, c.attempts, c.retryDelay, Retryable, func(ctx context.Context) (Receipt, error) {
		return c.email.SendEmail(ctx, msg, opts...)
	})
}

// Retryable reports whether a failed send may succeed on another attempt.
// Only external failures and plain errors are retried.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var e *errx.Error
	if errx.As(err, &e) {
		return e.Type == errx.TypeExternal
	}
	return true
}

func (r SendResult) finish(rec Receipt, err error) SendResult {
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Success = true
	r.MessageID = rec.MessageID
	return r
}
