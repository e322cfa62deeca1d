package camp

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
)

type CampRepository interface {
	Save(ctx context.Context, c CampNotification) error
	FindByID(ctx context.Context, id kernel.CampID) (*CampNotification, error)
	// List returns camps newest first
	List(ctx context.Context, filter ListFilter) ([]*CampNotification, error)
	// ListForCollege returns camps whose vacancies include the college, newest first
	ListForCollege(ctx context.Context, id kernel.CollegeID) ([]*CampNotification, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	Delete(ctx context.Context, id kernel.CampID) error
}

// Broadcaster announces a new camp to its colleges
type Broadcaster interface {
	BroadcastCamp(ctx context.Context, c CampNotification) (*BroadcastResult, error)
}

type ReviewerUnits interface {
	ForReviewer(ctx context.Context, userID kernel.UserID) (*unit.Unit, error)
}

type CollegeDirectory interface {
	ListByUnit(ctx context.Context, unitID kernel.UnitID) ([]*college.College, error)
	FindByIDs(ctx context.Context, ids []kernel.CollegeID) ([]*college.College, error)
}
