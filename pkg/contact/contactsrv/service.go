package contactsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/google/uuid"
)

type ContactService struct {
	repo contact.ContactRepository
}

func NewContactService(repo contact.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func check(req *contact.ContactRequest) error {
	req.Normalize()
	if err := kernel.Validate(req); err != nil {
		return err
	}
	return req.CheckFormats()
}

func (s *ContactService) CreateContact(ctx context.Context, req contact.ContactRequest) (*contact.AnoContact, error) {
	if err := check(&req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := contact.AnoContact{
		ID:             contact.ContactID(uuid.NewString()),
		Email:          req.Email,
		Name:           req.Name,
		Rank:           req.Rank,
		WhatsAppNumber: req.WhatsAppNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, id contact.ContactID, req contact.ContactRequest) (*contact.AnoContact, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := check(&req); err != nil {
		return nil, err
	}

	c.Email = req.Email
	c.Name = req.Name
	c.Rank = req.Rank
	c.WhatsAppNumber = req.WhatsAppNumber
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, id contact.ContactID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ContactService) GetContact(ctx context.Context, id contact.ContactID) (*contact.AnoContact, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) ListContacts(ctx context.Context) ([]*contact.AnoContact, error) {
	return s.repo.List(ctx)
}

// ByEmail indexes the managed contacts matching emails
func (s *ContactService) ByEmail(ctx context.Context, emails []string) (map[string]*contact.AnoContact, error) {
	found, err := s.repo.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*contact.AnoContact, len(found))
	for _, c := range found {
		out[c.Email] = c
	}
	return out, nil
}
