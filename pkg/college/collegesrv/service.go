package collegesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

type CollegeService struct {
	repo  college.CollegeRepository
	units college.UnitLookup
	roles user.RoleChecker
}

func NewCollegeService(repo college.CollegeRepository, units college.UnitLookup, roles user.RoleChecker) *CollegeService {
	return &CollegeService{repo: repo, units: units, roles: roles}
}

func (s *CollegeService) check(ctx context.Context, req *college.CollegeRequest) error {
	req.Normalize()
	if err := kernel.Validate(req); err != nil {
		return err
	}
	if _, err := s.units.GetUnit(ctx, req.UnitID); err != nil {
		return err
	}
	_, err := s.roles.RequireRole(ctx, iam.RoleANO, req.ANOs...)
	return err
}

func (s *CollegeService) CreateCollege(ctx context.Context, req college.CollegeRequest) (*college.College, error) {
	if err := s.check(ctx, &req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := college.College{
		ID:        kernel.NewID[kernel.CollegeID](),
		Name:      req.Name,
		UnitID:    req.UnitID,
		ANOs:      req.ANOs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CollegeService) UpdateCollege(ctx context.Context, id kernel.CollegeID, req college.CollegeRequest) (*college.College, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, &req); err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.UnitID = req.UnitID
	c.ANOs = req.ANOs
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollegeService) DeleteCollege(ctx context.Context, id kernel.CollegeID) error {
	return s.repo.Delete(ctx, id)
}

func (s *CollegeService) GetCollege(ctx context.Context, id kernel.CollegeID) (*college.College, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CollegeService) ListColleges(ctx context.Context) ([]*college.College, error) {
	return s.repo.List(ctx)
}

func (s *CollegeService) ListByUnit(ctx context.Context, unitID kernel.UnitID) ([]*college.College, error) {
	return s.repo.ListByUnit(ctx, unitID)
}

func (s *CollegeService) FindByIDs(ctx context.Context, ids []kernel.CollegeID) ([]*college.College, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// ForANO returns the college the ANO is assigned to
func (s *CollegeService) ForANO(ctx context.Context, anoID kernel.UserID) (*college.College, error) {
	return s.repo.FindByANO(ctx, anoID)
}
