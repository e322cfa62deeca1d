package directory

import "context"

// Source returns every contact of one kind
type Source interface {
	Contacts(ctx context.Context, kind Kind) ([]Contact, error)
}

// Invalidator is implemented by caching sources
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
