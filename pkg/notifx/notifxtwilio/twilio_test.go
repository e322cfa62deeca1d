package notifxtwilio

import (
	"context"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	sid, status := "SM123", "queued"
	return &twilioApi.ApiV2010Message{Sid: &sid, Status: &status}, nil
}

func TestSendWhatsApp(t *testing.T) {
	api := &fakeAPI{}
	p := NewWithAPI(api, "+14155238886")

	rec, err := p.SendWhatsApp(context.Background(), notifx.WhatsAppMessage{To: "+919876543210", Body: "hello"},
		notifx.WithStatusCallback("https://erp.example/hooks/twilio"))
	require.NoError(t, err)

	assert.Equal(t, "SM123", rec.MessageID)
	assert.Equal(t, "queued", rec.Status)
	assert.Equal(t, "whatsapp:+14155238886", *api.params.From)
	assert.Equal(t, "whatsapp:+919876543210", *api.params.To)
	assert.Equal(t, "hello", *api.params.Body)
	assert.Equal(t, "https://erp.example/hooks/twilio", *api.params.StatusCallback)
}

func TestSendWhatsAppClassifiesErrors(t *testing.T) {
	ctx := context.Background()
	msg := notifx.WhatsAppMessage{To: "+911", Body: "x"}

	_, err := NewWithAPI(&fakeAPI{err: &twilioclient.TwilioRestError{Status: 400, Code: 63007}}, "+1").SendWhatsApp(ctx, msg)
	assert.True(t, errx.IsType(err, errx.TypeBusiness))
	assert.False(t, notifx.Retryable(err))

	_, err = NewWithAPI(&fakeAPI{err: &twilioclient.TwilioRestError{Status: 429}}, "+1").SendWhatsApp(ctx, msg)
	assert.True(t, notifx.Retryable(err))
}

func TestSendWhatsAppHonoursCancelledContext(t *testing.T) {
	api := &fakeAPI{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWithAPI(api, "+1").SendWhatsApp(ctx, notifx.WhatsAppMessage{To: "+911", Body: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, api.params)
}
