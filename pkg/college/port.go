package college

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
)

type CollegeRepository interface {
	Save(ctx context.Context, c College) error
	FindByID(ctx context.Context, id kernel.CollegeID) (*College, error)
	FindByANO(ctx context.Context, anoID kernel.UserID) (*College, error)
	FindByIDs(ctx context.Context, ids []kernel.CollegeID) ([]*College, error)
	ListByUnit(ctx context.Context, unitID kernel.UnitID) ([]*College, error)
	List(ctx context.Context) ([]*College, error)
	Delete(ctx context.Context, id kernel.CollegeID) error
}

// UnitLookup resolves the unit a college belongs to
type UnitLookup interface {
	GetUnit(ctx context.Context, id kernel.UnitID) (*unit.Unit, error)
}
