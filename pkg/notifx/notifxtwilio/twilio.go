// Package notifxtwilio sends WhatsApp messages through the Twilio REST API.
package notifxtwilio

import (
	"context"
	"errors"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var twilioErrors = errx.NewRegistry("NOTIFX_TWILIO")

var (
	ErrSendFailed = twilioErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "Twilio send failed")
	ErrRejected   = twilioErrors.Register("REJECTED", errx.TypeBusiness, 422, "Twilio rejected the message")
)

// MessageAPI is the slice of the Twilio API service used here.
type MessageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Provider struct {
	api  MessageAPI
	from string
}

// New builds a provider from account credentials. from is the sender's
// WhatsApp number, with or without the "whatsapp:" prefix.
func New(accountSID, authToken, from string) *Provider {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewWithAPI(c.Api, from)
}

func NewWithAPI(api MessageAPI, from string) *Provider {
	return &Provider{api: api, from: address(from)}
}

var _ notifx.WhatsAppSender = (*Provider)(nil)

func address(n string) string {
	if strings.HasPrefix(n, "whatsapp:") {
		return n
	}
	return "whatsapp:" + n
}

// SendWhatsApp posts one message. The Twilio SDK call is not context aware,
// so cancellation is only checked before the request.
func (p *Provider) SendWhatsApp(ctx context.Context, msg notifx.WhatsAppMessage, opts ...notifx.Option) (notifx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return notifx.Receipt{}, err
	}
	so := notifx.ApplyOptions(opts)

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(p.from)
	params.SetTo(address(msg.To))
	params.SetBody(msg.Body)
	if so.StatusCallback != "" {
		params.SetStatusCallback(so.StatusCallback)
	}

	resp, err := p.api.CreateMessage(params)
	if err != nil {
		return notifx.Receipt{}, classify(err, msg.To)
	}

	var rec notifx.Receipt
	if resp.Sid != nil {
		rec.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		rec.Status = *resp.Status
	}
	return rec, nil
}

// classify marks 4xx responses other than 429 as final.
func classify(err error, to string) *errx.Error {
	var rest *twilioclient.TwilioRestError
	if errors.As(err, &rest) {
		code := ErrSendFailed
		if rest.Status >= 400 && rest.Status < 500 && rest.Status != 429 {
			code = ErrRejected
		}
		return twilioErrors.NewWithCause(code, err).
			WithDetail("to", to).
			WithDetail("twilio_code", rest.Code).
			WithDetail("twilio_status", rest.Status)
	}
	return twilioErrors.NewWithCause(ErrSendFailed, err).WithDetail("to", to)
}
