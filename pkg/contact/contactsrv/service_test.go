package contactsrv

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	contacts map[contact.ContactID]contact.AnoContact
}

func (m *memRepo) Save(_ context.Context, c contact.AnoContact) error {
	for _, o := range m.contacts {
		if o.Email == c.Email && o.ID != c.ID {
			return contact.ErrEmailTaken()
		}
	}
	m.contacts[c.ID] = c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id contact.ContactID) (*contact.AnoContact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return nil, contact.ErrContactNotFound()
	}
	return &c, nil
}

func (m *memRepo) FindByEmails(_ context.Context, emails []string) ([]*contact.AnoContact, error) {
	var out []*contact.AnoContact
	for _, c := range m.contacts {
		for _, e := range emails {
			if c.Email == e {
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

func (m *memRepo) List(context.Context) ([]*contact.AnoContact, error) {
	var out []*contact.AnoContact
	for _, c := range m.contacts {
		out = append(out, &c)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id contact.ContactID) error {
	delete(m.contacts, id)
	return nil
}

func newService() *ContactService {
	return NewContactService(&memRepo{contacts: map[contact.ContactID]contact.AnoContact{}})
}

func TestCreateContactNormalizes(t *testing.T) {
	svc := newService()

	c, err := svc.CreateContact(context.Background(), contact.ContactRequest{
		Email:          "  Lt.Rao@College.IN ",
		Name:           " Anita Rao ",
		Rank:           "Lt",
		WhatsAppNumber: "+91 98765-43210",
	})
	require.NoError(t, err)
	assert.Equal(t, "lt.rao@college.in", c.Email)
	assert.Equal(t, "Anita Rao", c.Name)

	byEmail, err := svc.ByEmail(context.Background(), []string{"lt.rao@college.in"})
	require.NoError(t, err)
	assert.Contains(t, byEmail, "lt.rao@college.in")
}

func TestCreateContactFormats(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	base := contact.ContactRequest{Email: "a@b.in", Name: "A", Rank: "Capt", WhatsAppNumber: "+91 (987) 654"}

	bad := base
	bad.Email = "not-an-email"
	_, err := svc.CreateContact(ctx, bad)
	assert.True(t, errx.HasCode(err, contact.CodeInvalidContact))

	bad = base
	bad.WhatsAppNumber = "9876543210"
	_, err = svc.CreateContact(ctx, bad)
	assert.True(t, errx.HasCode(err, contact.CodeInvalidContact))

	bad = base
	bad.Rank = " "
	_, err = svc.CreateContact(ctx, bad)
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	_, err = svc.CreateContact(ctx, base)
	require.NoError(t, err)
	_, err = svc.CreateContact(ctx, base)
	assert.True(t, errx.HasCode(err, contact.CodeEmailTaken))
}

func TestUpdateContactPreservesCreatedAt(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, err := svc.CreateContact(ctx, contact.ContactRequest{Email: "a@b.in", Name: "A", Rank: "Capt", WhatsAppNumber: "+919876543210"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	updated, err := svc.UpdateContact(ctx, c.ID, contact.ContactRequest{Email: "a@b.in", Name: "B", Rank: "Maj", WhatsAppNumber: "+919876543210"})
	require.NoError(t, err)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(c.CreatedAt))
	assert.Equal(t, "Maj", updated.Rank)
}
