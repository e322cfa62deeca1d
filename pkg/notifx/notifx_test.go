package notifx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/notifx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"98765 43210":       "+919876543210",
		"91-98765-43210":    "+919876543210",
		"+91 (98765) 43210": "+919876543210",
		"+1 415 523 8886":   "+14155238886",
	}
	for in, want := range cases {
		got, err := notifx.NormalizePhone(in, "91")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "  ", "+", "98x76"} {
		_, err := notifx.NormalizePhone(bad, "91")
		assert.True(t, notifx.IsInvalid(err), bad)
	}
}

type stubWhatsApp struct {
	calls int
	fail  []error
	last  notifx.WhatsAppMessage
}

func (s *stubWhatsApp) SendWhatsApp(_ context.Context, msg notifx.WhatsAppMessage, _ ...notifx.Option) (notifx.Receipt, error) {
	s.calls++
	s.last = msg
	if len(s.fail) > 0 {
		err := s.fail[0]
		s.fail = s.fail[1:]
		return notifx.Receipt{}, err
	}
	return notifx.Receipt{MessageID: "SM1"}, nil
}

func TestClientSendWhatsApp(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and reports message id", func(t *testing.T) {
		wa := &stubWhatsApp{}
		res := notifx.NewClient(wa).SendWhatsApp(ctx, notifx.WhatsAppMessage{To: "9876543210", Body: "hi"})

		assert.True(t, res.Success)
		assert.Equal(t, "SM1", res.MessageID)
		assert.Equal(t, "9876543210", res.To)
		assert.Equal(t, "+919876543210", wa.last.To)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		wa := &stubWhatsApp{fail: []error{errors.New("timeout"), errx.External("503")}}
		res := notifx.NewClient(wa, notifx.WithRetry(3, 0)).SendWhatsApp(ctx, notifx.WhatsAppMessage{To: "+911", Body: "hi"})

		assert.True(t, res.Success)
		assert.Equal(t, 3, wa.calls)
	})

	t.Run("does not retry rejections", func(t *testing.T) {
		wa := &stubWhatsApp{fail: []error{errx.Business("unverified number")}}
		res := notifx.NewClient(wa, notifx.WithRetry(3, 0)).SendWhatsApp(ctx, notifx.WhatsAppMessage{To: "+911", Body: "hi"})

		assert.False(t, res.Success)
		assert.Equal(t, 1, wa.calls)
		assert.Contains(t, res.Error, "unverified number")
	})

	t.Run("rejects empty body before provider", func(t *testing.T) {
		wa := &stubWhatsApp{}
		res := notifx.NewClient(wa).SendWhatsApp(ctx, notifx.WhatsAppMessage{To: "+911", Body: " "})

		assert.False(t, res.Success)
		assert.Zero(t, wa.calls)
	})
}

func TestClientEmailDisabled(t *testing.T) {
	c := notifx.NewClient(&stubWhatsApp{})
	assert.False(t, c.EmailEnabled())

	res := c.SendEmail(context.Background(), notifx.EmailMessage{To: []string{"a@b.c"}, Subject: "s"})
	assert.False(t, res.Success)
	assert.Equal(t, notifx.ChannelEmail, res.Channel)
}

func TestTemplateRegistry(t *testing.T) {
	r := notifx.NewTemplateRegistry(nil)
	require.NoError(t, r.Register("hello", "\n  Dear {{.Rank}} {{.Name}},\n"))

	out, err := r.Render("hello", map[string]string{"Rank": "Lt", "Name": "Rao"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Lt Rao,", out)

	_, err = r.Render("missing", nil)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))

	assert.Error(t, r.Register("broken", "{{.Name"))
}
