package contactapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/contact/contactsrv"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth/authtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo map[contact.ContactID]contact.AnoContact

func (m memRepo) Save(_ context.Context, c contact.AnoContact) error {
	for id, other := range m {
		if id != c.ID && other.Email == c.Email {
			return contact.ErrEmailTaken()
		}
	}
	m[c.ID] = c
	return nil
}

func (m memRepo) FindByID(_ context.Context, id contact.ContactID) (*contact.AnoContact, error) {
	c, ok := m[id]
	if !ok {
		return nil, contact.ErrContactNotFound()
	}
	return &c, nil
}

func (m memRepo) FindByEmails(context.Context, []string) ([]*contact.AnoContact, error) {
	return nil, nil
}

func (m memRepo) List(context.Context) ([]*contact.AnoContact, error) {
	var out []*contact.AnoContact
	for _, c := range m {
		out = append(out, &c)
	}
	return out, nil
}

func (m memRepo) Delete(_ context.Context, id contact.ContactID) error {
	if _, ok := m[id]; !ok {
		return contact.ErrContactNotFound()
	}
	delete(m, id)
	return nil
}

var admin = authtest.As("admin-1", iam.RoleAdmin)

func newHarness(t *testing.T) (*authtest.Harness, memRepo) {
	repo := memRepo{
		"k1": {ID: "k1", Email: "rao@college.in", Name: "Rao", Rank: "Lt", WhatsAppNumber: "+91 98220 00001"},
	}
	return authtest.New(t, NewContactHandlers(contactsrv.NewContactService(repo)).RegisterRoutes), repo
}

func TestCreateContactNormalizesEmail(t *testing.T) {
	h, repo := newHarness(t)

	resp := h.Do(admin, http.MethodPost, "/contacts", contact.ContactRequest{
		Email:          " Patil@College.IN ",
		Name:           "Patil",
		Rank:           "Capt",
		WhatsAppNumber: "+91 (982) 200-0002",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got contact.AnoContact
	authtest.Decode(t, resp, &got)
	assert.Equal(t, "patil@college.in", got.Email)
	assert.NotEmpty(t, got.ID)
	assert.Len(t, repo, 2)
}

func TestCreateContactRejectsBadNumber(t *testing.T) {
	h, _ := newHarness(t)

	resp := h.Do(admin, http.MethodPost, "/contacts", contact.ContactRequest{
		Email: "patil@college.in", Name: "Patil", Rank: "Capt", WhatsAppNumber: "9822000002",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONTACT_INVALID", authtest.Code(t, resp))
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	h, _ := newHarness(t)

	resp := h.Do(admin, http.MethodPost, "/contacts", contact.ContactRequest{
		Email: "RAO@college.in", Name: "Rao", Rank: "Lt", WhatsAppNumber: "+919822000001",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateAndDeleteContact(t *testing.T) {
	h, repo := newHarness(t)

	resp := h.Do(admin, http.MethodPut, "/contacts/k1", contact.ContactRequest{
		Email: "rao@college.in", Name: "Rao", Rank: "Capt", WhatsAppNumber: "+919822000001",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Capt", repo["k1"].Rank)

	resp = h.Do(admin, http.MethodDelete, "/contacts/k1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.Do(admin, http.MethodGet, "/contacts/k1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactsAreAdminOnly(t *testing.T) {
	h, _ := newHarness(t)

	for _, role := range []iam.Role{iam.RoleANO, iam.RoleClerk, iam.RoleCO} {
		resp := h.Do(authtest.As("u-1", role), http.MethodGet, "/contacts", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, role)
	}
}
