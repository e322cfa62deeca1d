package campsrv

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
)

const letterDir = "camp-notifications"

type CampService struct {
	repo        camp.CampRepository
	files       fsx.FileSystem
	broadcaster camp.Broadcaster
	units       camp.ReviewerUnits
	colleges    camp.CollegeDirectory
	urlExpiry   time.Duration
	now         func() time.Time
}

func NewCampService(
	repo camp.CampRepository,
	files fsx.FileSystem,
	broadcaster camp.Broadcaster,
	units camp.ReviewerUnits,
	colleges camp.CollegeDirectory,
	urlExpiry time.Duration,
) *CampService {
	return &CampService{
		repo:        repo,
		files:       files,
		broadcaster: broadcaster,
		units:       units,
		colleges:    colleges,
		urlExpiry:   urlExpiry,
		now:         time.Now,
	}
}

func (s *CampService) check(ctx context.Context, req *camp.CampRequest) error {
	req.Normalize()
	if err := kernel.Validate(req); err != nil {
		return err
	}
	if err := req.CheckVacancies(); err != nil {
		return err
	}

	ids := make([]kernel.CollegeID, 0, len(req.Vacancies))
	for id := range req.Vacancies {
		ids = append(ids, id)
	}
	found, err := s.colleges.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		known := make(map[kernel.CollegeID]bool, len(found))
		for _, c := range found {
			known[c.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return camp.ErrUnknownCollege().WithDetail("college_id", id)
			}
		}
	}
	return nil
}

func (s *CampService) storeLetter(ctx context.Context, letter *camp.Letter) (string, error) {
	if err := letter.Check(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), fsx.CleanName(letter.Name))
	p := s.files.Join(letterDir, name)
	if err := s.files.WriteFile(ctx, p, letter.Data); err != nil {
		return "", err
	}
	return p, nil
}

// CreateCamp stores the camp and announces it. A failed announcement does not
// fail the create; it is reported in the response.
func (s *CampService) CreateCamp(ctx context.Context, createdBy string, req camp.CampRequest, letter *camp.Letter) (*camp.CreateCampResponse, error) {
	if err := s.check(ctx, &req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := camp.CampNotification{
		ID:            kernel.NewID[kernel.CampID](),
		Title:         req.Title,
		Description:   req.Description,
		ReportingDate: req.ReportingDate,
		ReportingTime: req.ReportingTime,
		Venue:         req.Venue,
		Vacancies:     req.Vacancies,
		SendTo:        req.SendTo,
		CreatedBy:     createdBy,
		Status:        req.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if letter != nil {
		p, err := s.storeLetter(ctx, letter)
		if err != nil {
			return nil, err
		}
		c.OfficialLetter = p
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"camp_id":  c.ID,
		"colleges": len(c.Vacancies),
		"send_to":  c.SendTo,
	}).Info("Camp notification created")

	resp := &camp.CreateCampResponse{Camp: &c}
	if s.broadcaster == nil {
		return resp, nil
	}

	result, err := s.broadcaster.BroadcastCamp(ctx, c)
	if err != nil {
		logx.WithError(err).WithField("camp_id", c.ID).Warn("Camp broadcast failed")
		resp.BroadcastError = errx.From(err).Message
		return resp, nil
	}
	resp.Broadcast = result
	return resp, nil
}

func (s *CampService) UpdateCamp(ctx context.Context, id kernel.CampID, req camp.CampRequest, letter *camp.Letter) (*camp.CampNotification, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = c.Status
	}
	if err := s.check(ctx, &req); err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(req.Status) {
		return nil, camp.ErrInvalidTransition(c.Status, req.Status)
	}

	previousLetter := c.OfficialLetter
	if letter != nil {
		p, err := s.storeLetter(ctx, letter)
		if err != nil {
			return nil, err
		}
		c.OfficialLetter = p
	}

	c.Title = req.Title
	c.Description = req.Description
	c.ReportingDate = req.ReportingDate
	c.ReportingTime = req.ReportingTime
	c.Venue = req.Venue
	c.Vacancies = req.Vacancies
	c.SendTo = req.SendTo
	c.Status = req.Status
	c.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, *c); err != nil {
		return nil, err
	}
	if letter != nil && previousLetter != "" {
		s.removeLetter(ctx, previousLetter)
	}
	return c, nil
}

// SetStatus moves a camp along draft, published, closed
func (s *CampService) SetStatus(ctx context.Context, id kernel.CampID, status camp.Status) (*camp.CampNotification, error) {
	if !status.IsValid() {
		return nil, errx.Validation("invalid camp status").WithDetail("status", status)
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(status) {
		return nil, camp.ErrInvalidTransition(c.Status, status)
	}
	if c.Status == status {
		return c, nil
	}

	c.Status = status
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampService) DeleteCamp(ctx context.Context, id kernel.CampID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if c.OfficialLetter != "" {
		s.removeLetter(ctx, c.OfficialLetter)
	}
	return nil
}

func (s *CampService) removeLetter(ctx context.Context, p string) {
	if err := s.files.DeleteFile(ctx, p); err != nil {
		logx.WithError(err).WithField("path", p).Warn("Failed to remove replaced official letter")
	}
}

func (s *CampService) GetCamp(ctx context.Context, id kernel.CampID) (*camp.CampNotification, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CampService) ListCamps(ctx context.Context, filter camp.ListFilter) ([]*camp.CampNotification, error) {
	return s.repo.List(ctx, filter)
}

func (s *CampService) ListPublished(ctx context.Context) ([]*camp.CampNotification, error) {
	return s.repo.List(ctx, camp.ListFilter{Status: camp.StatusPublished})
}

func (s *CampService) CountPublished(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, camp.StatusPublished)
}

// PlanningColleges returns the colleges of the reviewer's unit
func (s *CampService) PlanningColleges(ctx context.Context, reviewerID kernel.UserID) ([]*college.College, error) {
	u, err := s.units.ForReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	return s.colleges.ListByUnit(ctx, u.ID)
}

// VacanciesForCollege lists every camp allotting seats to the college
func (s *CampService) VacanciesForCollege(ctx context.Context, collegeID kernel.CollegeID) (*camp.CollegeVacancies, error) {
	camps, err := s.repo.ListForCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	out := &camp.CollegeVacancies{Camps: make([]camp.CollegeCamp, 0, len(camps))}
	for _, c := range camps {
		v := c.VacancyFor(collegeID)
		out.Camps = append(out.Camps, camp.CollegeCamp{CampNotification: c, Vacancy: v})
		out.TotalVacancies += v
		if c.Status == camp.StatusPublished {
			out.Published++
		}
	}
	return out, nil
}

// LetterDownload is either a direct URL or an open stream
type LetterDownload struct {
	URL         string
	Name        string
	ContentType string
	Body        io.ReadCloser
}

func (s *CampService) OpenLetter(ctx context.Context, id kernel.CampID) (*LetterDownload, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OfficialLetter == "" {
		return nil, camp.ErrNoLetter().WithDetail("camp_id", id)
	}

	d := &LetterDownload{
		Name:        path.Base(c.OfficialLetter),
		ContentType: fsx.DetectContentType(c.OfficialLetter, nil),
	}
	if p, ok := s.files.(fsx.PresignedURLGenerator); ok {
		url, err := p.GetPresignedDownloadURL(ctx, c.OfficialLetter, s.urlExpiry)
		if err != nil {
			return nil, err
		}
		d.URL = url
		return d, nil
	}

	body, err := s.files.ReadFileStream(ctx, c.OfficialLetter)
	if err != nil {
		return nil, err
	}
	d.Body = body
	return d, nil
}
