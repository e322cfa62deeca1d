package notifxses

import (
	"context"
	"errors"

	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of the SES client the provider uses.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Provider implements notifx.EmailSender using AWS SES.
type Provider struct {
	client      SESAPI
	fromAddress string
	fromName    string
}

func New(client SESAPI, fromAddress, fromName string) *Provider {
	return &Provider{client: client, fromAddress: fromAddress, fromName: fromName}
}

var _ notifx.EmailSender = (*Provider)(nil)

func (p *Provider) source(msg notifx.EmailMessage) string {
	if msg.From != "" {
		return msg.From
	}
	if p.fromName != "" {
		return p.fromName + " <" + p.fromAddress + ">"
	}
	return p.fromAddress
}

func content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

// SendEmail sends a single email via SES.
func (p *Provider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) (notifx.Receipt, error) {
	so := notifx.ApplyOptions(opts)

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = content(msg.TextBody)
	}
	if msg.HTMLBody != "" {
		body.Html = content(msg.HTMLBody)
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(p.source(msg)),
		Destination: &types.Destination{ToAddresses: msg.To, CcAddresses: msg.CC},
		Message:     &types.Message{Subject: content(msg.Subject), Body: body},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if so.ConfigID != "" {
		input.ConfigurationSetName = aws.String(so.ConfigID)
	}
	for k, v := range so.Tags {
		input.Tags = append(input.Tags, types.MessageTag{Name: aws.String(k), Value: aws.String(v)})
	}

	out, err := p.client.SendEmail(ctx, input)
	if err != nil {
		var rejected *types.MessageRejected
		if errors.As(err, &rejected) {
			return notifx.Receipt{}, sesErrors.NewWithCause(ErrRejected, err).WithDetail("to", msg.To)
		}
		return notifx.Receipt{}, sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", msg.To).
			WithDetail("subject", msg.Subject)
	}

	return notifx.Receipt{MessageID: aws.ToString(out.MessageId), Status: "sent"}, nil
}
