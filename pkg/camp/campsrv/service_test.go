package campsrv

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	camps map[kernel.CampID]camp.CampNotification
}

func (m *memRepo) Save(_ context.Context, c camp.CampNotification) error {
	m.camps[c.ID] = c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id kernel.CampID) (*camp.CampNotification, error) {
	c, ok := m.camps[id]
	if !ok {
		return nil, camp.ErrCampNotFound()
	}
	return &c, nil
}

func (m *memRepo) sorted(keep func(camp.CampNotification) bool) []*camp.CampNotification {
	var out []*camp.CampNotification
	for _, c := range m.camps {
		if keep(c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memRepo) List(_ context.Context, f camp.ListFilter) ([]*camp.CampNotification, error) {
	return m.sorted(func(c camp.CampNotification) bool {
		return (f.Status == "" || c.Status == f.Status) && c.Matches(f.Query)
	}), nil
}

func (m *memRepo) ListForCollege(_ context.Context, id kernel.CollegeID) ([]*camp.CampNotification, error) {
	return m.sorted(func(c camp.CampNotification) bool {
		_, ok := c.Vacancies[id]
		return ok
	}), nil
}

func (m *memRepo) CountByStatus(_ context.Context, s camp.Status) (int, error) {
	return len(m.sorted(func(c camp.CampNotification) bool { return c.Status == s })), nil
}

func (m *memRepo) Delete(_ context.Context, id kernel.CampID) error {
	delete(m.camps, id)
	return nil
}

type recordingBroadcaster struct {
	camps []camp.CampNotification
	err   error
}

func (b *recordingBroadcaster) BroadcastCamp(_ context.Context, c camp.CampNotification) (*camp.BroadcastResult, error) {
	b.camps = append(b.camps, c)
	if b.err != nil {
		return nil, b.err
	}
	return &camp.BroadcastResult{Success: true, Sent: 2, Total: 2}, nil
}

type fakeUnits struct{}

func (fakeUnits) ForReviewer(_ context.Context, id kernel.UserID) (*unit.Unit, error) {
	if id != "co-1" {
		return nil, unit.ErrNoReviewerUnit()
	}
	return &unit.Unit{ID: "unit-1"}, nil
}

type fakeColleges []*college.College

func (f fakeColleges) ListByUnit(_ context.Context, id kernel.UnitID) ([]*college.College, error) {
	var out []*college.College
	for _, c := range f {
		if c.UnitID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeColleges) FindByIDs(_ context.Context, ids []kernel.CollegeID) ([]*college.College, error) {
	var out []*college.College
	for _, c := range f {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func newService(t *testing.T, b camp.Broadcaster) (*CampService, *memRepo) {
	t.Helper()
	files, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	repo := &memRepo{camps: map[kernel.CampID]camp.CampNotification{}}
	colleges := fakeColleges{
		{ID: "c1", Name: "Fergusson College", UnitID: "unit-1"},
		{ID: "c2", Name: "SP College", UnitID: "unit-1"},
		{ID: "c3", Name: "Wadia College", UnitID: "unit-2"},
	}
	svc := NewCampService(repo, files, b, fakeUnits{}, colleges, time.Minute)

	clock := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo
}

func validRequest() camp.CampRequest {
	return camp.CampRequest{
		Title:         " Annual Training Camp ",
		ReportingDate: "2026-02-10",
		ReportingTime: "07:30",
		Venue:         "Khadakwasla",
		Vacancies:     map[kernel.CollegeID]int{"c1": 5, "c2": 0},
	}
}

func TestCreateCampBroadcasts(t *testing.T) {
	b := &recordingBroadcaster{}
	svc, repo := newService(t, b)

	resp, err := svc.CreateCamp(context.Background(), "clerk@unit.in", validRequest(), &camp.Letter{
		Name:        "../orders.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	c := resp.Camp
	assert.Equal(t, "Annual Training Camp", c.Title)
	assert.Equal(t, camp.StatusDraft, c.Status)
	assert.Equal(t, camp.AudienceANO, c.SendTo)
	assert.Equal(t, map[kernel.CollegeID]int{"c1": 5}, c.Vacancies)
	assert.Regexp(t, `^camp-notifications/\d+-orders\.pdf$`, c.OfficialLetter)
	assert.Len(t, repo.camps, 1)

	require.Len(t, b.camps, 1)
	assert.Equal(t, c.ID, b.camps[0].ID)
	assert.Equal(t, 2, resp.Broadcast.Sent)
}

func TestCreateCampSurvivesBroadcastFailure(t *testing.T) {
	b := &recordingBroadcaster{err: errx.Validation("Missing configuration: TWILIO_AUTH_TOKEN")}
	svc, repo := newService(t, b)

	resp, err := svc.CreateCamp(context.Background(), "clerk@unit.in", validRequest(), nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Broadcast)
	assert.Equal(t, "Missing configuration: TWILIO_AUTH_TOKEN", resp.BroadcastError)
	assert.Len(t, repo.camps, 1)
}

func TestCreateCampValidation(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	req := validRequest()
	req.ReportingDate = "10/02/2026"
	_, err := svc.CreateCamp(ctx, "x", req, nil)
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	req = validRequest()
	req.Vacancies = map[kernel.CollegeID]int{"missing": 3}
	_, err = svc.CreateCamp(ctx, "x", req, nil)
	assert.True(t, errx.HasCode(err, camp.CodeUnknownCollege))

	_, err = svc.CreateCamp(ctx, "x", validRequest(), &camp.Letter{Name: "a.txt", ContentType: "text/plain"})
	assert.True(t, errx.HasCode(err, camp.CodeLetterType))
}

func TestStatusLifecycle(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	resp, err := svc.CreateCamp(ctx, "x", validRequest(), nil)
	require.NoError(t, err)
	id := resp.Camp.ID

	c, err := svc.SetStatus(ctx, id, camp.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, camp.StatusPublished, c.Status)

	_, err = svc.SetStatus(ctx, id, camp.StatusDraft)
	assert.True(t, errx.HasCode(err, camp.CodeInvalidTransition))

	req := validRequest()
	req.Status = camp.StatusPublished
	_, err = svc.UpdateCamp(ctx, id, req, nil)
	require.NoError(t, err, "same-status edits are allowed")

	_, err = svc.SetStatus(ctx, id, camp.StatusClosed)
	require.NoError(t, err)

	req.Status = camp.StatusPublished
	_, err = svc.UpdateCamp(ctx, id, req, nil)
	assert.True(t, errx.HasCode(err, camp.CodeInvalidTransition), "closed is terminal")
}

func TestUpdateWithoutStatusKeepsStoredStatus(t *testing.T) {
	svc, repo := newService(t, nil)
	ctx := context.Background()

	resp, err := svc.CreateCamp(ctx, "x", validRequest(), nil)
	require.NoError(t, err)
	id := resp.Camp.ID
	_, err = svc.SetStatus(ctx, id, camp.StatusPublished)
	require.NoError(t, err)

	req := validRequest()
	req.Venue = "Kamptee"
	c, err := svc.UpdateCamp(ctx, id, req, nil)
	require.NoError(t, err)
	assert.Equal(t, camp.StatusPublished, c.Status)
	assert.Equal(t, "Kamptee", repo.camps[id].Venue)
}

func TestVacanciesForCollege(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	first, err := svc.CreateCamp(ctx, "x", validRequest(), nil)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, first.Camp.ID, camp.StatusPublished)
	require.NoError(t, err)

	req := validRequest()
	req.Title = "Trekking Camp"
	req.Vacancies = map[kernel.CollegeID]int{"c1": 2, "c2": 4}
	second, err := svc.CreateCamp(ctx, "x", req, nil)
	require.NoError(t, err)

	got, err := svc.VacanciesForCollege(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Camps, 2)
	assert.Equal(t, second.Camp.ID, got.Camps[0].ID, "newest first")
	assert.Equal(t, 7, got.TotalVacancies)
	assert.Equal(t, 1, got.Published)

	got, err = svc.VacanciesForCollege(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, got.Camps, 1)
}

func TestPlanningColleges(t *testing.T) {
	svc, _ := newService(t, nil)

	got, err := svc.PlanningColleges(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.PlanningColleges(context.Background(), "ano-1")
	assert.True(t, errx.HasCode(err, unit.CodeNoReviewerUnit))
}

func TestOpenLetterStreamsFromLocalStore(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	resp, err := svc.CreateCamp(ctx, "x", validRequest(), &camp.Letter{Name: "orders.png", ContentType: "image/png", Data: []byte("png-bytes")})
	require.NoError(t, err)

	d, err := svc.OpenLetter(ctx, resp.Camp.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Body)
	defer d.Body.Close()

	data, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", d.ContentType)

	plain, err := svc.CreateCamp(ctx, "x", validRequest(), nil)
	require.NoError(t, err)
	_, err = svc.OpenLetter(ctx, plain.Camp.ID)
	assert.True(t, errors.Is(err, camp.ErrNoLetter()))
}
