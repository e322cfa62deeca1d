package directorysrv

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/logx"
)

// CollegeLister lists every college with its assigned ANOs
type CollegeLister interface {
	ListColleges(ctx context.Context) ([]*college.College, error)
}

// OfficerLister lists users holding a role
type OfficerLister interface {
	Officers(ctx context.Context, role iam.Role) ([]user.UserDTO, error)
}

type DirectoryService struct {
	source   directory.Source
	colleges CollegeLister
	officers OfficerLister
	cfg      config.SheetsConfig
}

// NewDirectoryService accepts a nil source when the spreadsheet is not
// configured; reads then fail with a not-configured error.
func NewDirectoryService(source directory.Source, colleges CollegeLister, officers OfficerLister, cfg config.SheetsConfig) *DirectoryService {
	return &DirectoryService{source: source, colleges: colleges, officers: officers, cfg: cfg}
}

// Validate lists the missing configuration variables
func (s *DirectoryService) Validate() []string {
	return s.cfg.Missing()
}

func (s *DirectoryService) contacts(ctx context.Context, kind directory.Kind) ([]directory.Contact, error) {
	if missing := s.Validate(); len(missing) > 0 || s.source == nil {
		return nil, directory.ErrNotConfigured(missing)
	}
	return s.source.Contacts(ctx, kind)
}

// ByColleges returns ANO contacts whose college equals one of names
func (s *DirectoryService) ByColleges(ctx context.Context, names []string) ([]directory.Contact, error) {
	return s.byColleges(ctx, directory.KindANO, names)
}

// CadetsByColleges returns cadet contacts whose college equals one of names
func (s *DirectoryService) CadetsByColleges(ctx context.Context, names []string) ([]directory.Contact, error) {
	return s.byColleges(ctx, directory.KindCadet, names)
}

func (s *DirectoryService) byColleges(ctx context.Context, kind directory.Kind, names []string) ([]directory.Contact, error) {
	all, err := s.contacts(ctx, kind)
	if err != nil {
		return nil, err
	}
	matched := directory.FilterByColleges(all, names)
	if len(matched) == 0 && len(names) > 0 && len(all) > 0 {
		logx.WithFields(logx.Fields{
			"kind":     kind,
			"colleges": names,
		}).Warn("No directory contacts match the requested colleges; check college names in the sheet")
	}
	return matched, nil
}

// RosterForCollege returns the cadets listed for a college
func (s *DirectoryService) RosterForCollege(ctx context.Context, collegeName string) ([]directory.Contact, error) {
	all, err := s.contacts(ctx, directory.KindCadet)
	if err != nil {
		return nil, err
	}
	out := []directory.Contact{}
	for _, c := range all {
		if directory.RosterMatch(c.College, collegeName) {
			out = append(out, c)
		}
	}
	return out, nil
}

// TestConnection reads the ANO sheet bypassing any cache
func (s *DirectoryService) TestConnection(ctx context.Context) directory.ConnectionResult {
	if missing := s.Validate(); len(missing) > 0 {
		return directory.ConnectionResult{
			Message: "Missing configuration: " + strings.Join(missing, ", "),
		}
	}
	if err := s.Refresh(ctx); err != nil {
		logx.WithError(err).Warn("Directory cache invalidation failed")
	}

	contacts, err := s.contacts(ctx, directory.KindANO)
	if err != nil {
		return directory.ConnectionResult{Message: "Connection failed: " + err.Error()}
	}
	return directory.ConnectionResult{
		Success:  true,
		Message:  fmt.Sprintf("Successfully connected to Google Sheets. Found %d ANO contacts.", len(contacts)),
		Contacts: contacts,
	}
}

// Refresh drops cached directory data when the source caches
func (s *DirectoryService) Refresh(ctx context.Context) error {
	if inv, ok := s.source.(directory.Invalidator); ok {
		return inv.Invalidate(ctx)
	}
	return nil
}

// Reconcile compares sheet rows with the college ANO assignments in the database
func (s *DirectoryService) Reconcile(ctx context.Context) (*directory.ReconcileReport, error) {
	sheet, err := s.contacts(ctx, directory.KindANO)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments(ctx)
	if err != nil {
		return nil, err
	}
	report := directory.Reconcile(sheet, assignments)
	return &report, nil
}

func (s *DirectoryService) assignments(ctx context.Context) ([]directory.Assignment, error) {
	colleges, err := s.colleges.ListColleges(ctx)
	if err != nil {
		return nil, err
	}
	anos, err := s.officers.Officers(ctx, iam.RoleANO)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]user.UserDTO, len(anos))
	for _, a := range anos {
		byID[a.ID.String()] = a
	}

	var out []directory.Assignment
	for _, c := range colleges {
		for _, id := range c.ANOs {
			ano, ok := byID[id.String()]
			if !ok {
				continue
			}
			out = append(out, directory.Assignment{
				CollegeID:   c.ID.String(),
				CollegeName: c.Name,
				ANOName:     ano.Name,
				ANOEmail:    ano.Email,
			})
		}
	}
	return out, nil
}
