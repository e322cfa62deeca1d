package contact

import "context"

type ContactRepository interface {
	Save(ctx context.Context, c AnoContact) error
	FindByID(ctx context.Context, id ContactID) (*AnoContact, error)
	FindByEmails(ctx context.Context, emails []string) ([]*AnoContact, error)
	List(ctx context.Context) ([]*AnoContact, error)
	Delete(ctx context.Context, id ContactID) error
}
