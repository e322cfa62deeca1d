package unitsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
)

type UnitService struct {
	repo  unit.UnitRepository
	roles user.RoleChecker
}

func NewUnitService(repo unit.UnitRepository, roles user.RoleChecker) *UnitService {
	return &UnitService{repo: repo, roles: roles}
}

// check validates req and returns the officer names keyed by role
func (s *UnitService) check(ctx context.Context, req *unit.UnitRequest) (coName, clerkName string, err error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Colleges = unit.CleanColleges(req.Colleges)

	if err := kernel.Validate(req); err != nil {
		return "", "", err
	}
	if len(req.Colleges) == 0 {
		return "", "", unit.ErrInvalidUnit("at least one college is required")
	}
	if req.COID == req.ClerkID {
		return "", "", unit.ErrSameOfficer()
	}

	co, err := s.roles.RequireRole(ctx, iam.RoleCO, req.COID)
	if err != nil {
		return "", "", err
	}
	clerk, err := s.roles.RequireRole(ctx, iam.RoleClerk, req.ClerkID)
	if err != nil {
		return "", "", err
	}
	return co[0].Name, clerk[0].Name, nil
}

func (s *UnitService) CreateUnit(ctx context.Context, req unit.UnitRequest) (*unit.UnitDTO, error) {
	coName, clerkName, err := s.check(ctx, &req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := unit.Unit{
		ID:        kernel.NewID[kernel.UnitID](),
		Name:      req.Name,
		COID:      req.COID,
		ClerkID:   req.ClerkID,
		Colleges:  req.Colleges,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return &unit.UnitDTO{Unit: u, COName: coName, ClerkName: clerkName}, nil
}

func (s *UnitService) UpdateUnit(ctx context.Context, id kernel.UnitID, req unit.UnitRequest) (*unit.UnitDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	coName, clerkName, err := s.check(ctx, &req)
	if err != nil {
		return nil, err
	}

	u.Name = req.Name
	u.COID = req.COID
	u.ClerkID = req.ClerkID
	u.Colleges = req.Colleges
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, *u); err != nil {
		return nil, err
	}
	return &unit.UnitDTO{Unit: *u, COName: coName, ClerkName: clerkName}, nil
}

func (s *UnitService) DeleteUnit(ctx context.Context, id kernel.UnitID) error {
	return s.repo.Delete(ctx, id)
}

func (s *UnitService) GetUnit(ctx context.Context, id kernel.UnitID) (*unit.Unit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UnitService) ListUnits(ctx context.Context) ([]*unit.Unit, error) {
	return s.repo.List(ctx)
}

// ForReviewer returns the unit where userID is the CO, falling back to the
// one where they are the clerk.
func (s *UnitService) ForReviewer(ctx context.Context, userID kernel.UserID) (*unit.Unit, error) {
	units, err := s.repo.FindByOfficer(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if u.COID == userID {
			return u, nil
		}
	}
	if len(units) > 0 {
		return units[0], nil
	}
	return nil, unit.ErrNoReviewerUnit().WithDetail("user_id", userID)
}
