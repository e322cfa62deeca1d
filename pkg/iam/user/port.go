package user

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type UserRepository interface {
	Save(ctx context.Context, u User) error
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []kernel.UserID) ([]*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id kernel.UserID) error
}

// PasswordHasher hashes and checks account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// RoleChecker confirms users hold an expected role. Other modules use it to
// validate officer assignments without depending on the repository.
type RoleChecker interface {
	RequireRole(ctx context.Context, role iam.Role, ids ...kernel.UserID) ([]*User, error)
}
