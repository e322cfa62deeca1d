package unit

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type UnitRepository interface {
	Save(ctx context.Context, u Unit) error
	FindByID(ctx context.Context, id kernel.UnitID) (*Unit, error)
	// FindByOfficer returns units where the user is CO or clerk, CO matches first
	FindByOfficer(ctx context.Context, userID kernel.UserID) ([]*Unit, error)
	List(ctx context.Context) ([]*Unit, error)
	Delete(ctx context.Context, id kernel.UnitID) error
}
