package directorysrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/directory"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	anos, cadets []directory.Contact
	invalidated  int
}

func (f *fakeSource) Contacts(_ context.Context, kind directory.Kind) ([]directory.Contact, error) {
	if kind == directory.KindCadet {
		return f.cadets, nil
	}
	return f.anos, nil
}

func (f *fakeSource) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

type fakeColleges []*college.College

func (f fakeColleges) ListColleges(context.Context) ([]*college.College, error) { return f, nil }

type fakeOfficers []user.UserDTO

func (f fakeOfficers) Officers(context.Context, iam.Role) ([]user.UserDTO, error) { return f, nil }

var sheetsCfg = config.SheetsConfig{APIKey: "key", AnoSheetID: "sheet"}

func newService(src *fakeSource) *DirectoryService {
	colleges := fakeColleges{
		{ID: "c1", Name: "Fergusson College", ANOs: []kernel.UserID{"ano-1"}},
		{ID: "c2", Name: "SP College", ANOs: []kernel.UserID{"ano-2", "ghost"}},
	}
	officers := fakeOfficers{
		{ID: "ano-1", Name: "Lt. Rao", Email: "rao@college.in"},
		{ID: "ano-2", Name: "Capt. Deshmukh", Email: "deshmukh@college.in"},
	}
	return NewDirectoryService(src, colleges, officers, sheetsCfg)
}

func TestByCollegesAndRoster(t *testing.T) {
	src := &fakeSource{
		anos: []directory.Contact{
			{Name: "Rao", College: "Fergusson College"},
			{Name: "Patil", College: "Wadia College"},
		},
		cadets: []directory.Contact{
			{Name: "Cadet A", College: "Fergusson College, Pune"},
			{Name: "Cadet B", College: "SP College"},
		},
	}
	svc := newService(src)
	ctx := context.Background()

	anos, err := svc.ByColleges(ctx, []string{"fergusson college "})
	require.NoError(t, err)
	require.Len(t, anos, 1)
	assert.Equal(t, "Rao", anos[0].Name)

	roster, err := svc.RosterForCollege(ctx, "Fergusson College")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Cadet A", roster[0].Name)
}

func TestUnconfiguredDirectory(t *testing.T) {
	svc := NewDirectoryService(nil, fakeColleges{}, fakeOfficers{}, config.SheetsConfig{})

	assert.Equal(t, []string{"SHEETS_API_KEY", "SHEETS_ANO_ID"}, svc.Validate())

	_, err := svc.ByColleges(context.Background(), []string{"X"})
	assert.True(t, errx.HasCode(err, directory.CodeNotConfigured))

	res := svc.TestConnection(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "Missing configuration: SHEETS_API_KEY, SHEETS_ANO_ID", res.Message)
}

func TestConnectionBypassesCache(t *testing.T) {
	src := &fakeSource{anos: []directory.Contact{{Name: "Rao"}, {Name: "Patil"}}}
	svc := newService(src)

	res := svc.TestConnection(context.Background())
	assert.True(t, res.Success)
	assert.Equal(t, "Successfully connected to Google Sheets. Found 2 ANO contacts.", res.Message)
	assert.Equal(t, 1, src.invalidated)
}

func TestReconcileUsesAssignments(t *testing.T) {
	src := &fakeSource{anos: []directory.Contact{
		{Name: "Rao", Email: "rao.sheet@college.in", College: "FERGUSSON COLLEGE"},
	}}
	svc := newService(src)

	report, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Matched, 1)
	assert.Equal(t, "Lt. Rao", report.Matched[0].ANOName)
	assert.Equal(t, "rao.sheet@college.in", report.Matched[0].SheetEmail)
	assert.Empty(t, report.UnmatchedSheet)
	assert.Equal(t, []directory.CollegeGap{{CollegeName: "SP College", ANOCount: 1}}, report.UnmatchedColleges,
		"unknown ANO ids are not counted")
}
