package selectionapi

import (
	"context"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth/authtest"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
	"github.com/Abraxas-365/nccerp/pkg/selection/selectionsrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	subs      map[kernel.SubmissionID]selection.Submission
	finalized []selection.FinalizedSelection
	institute []selection.InstituteSelection
}

func (m *memStore) repos() selection.Repos {
	return selection.Repos{Submissions: memSubs{m}, Finalized: memFinalized{m}, Institute: memInstitute{m}}
}

func (m *memStore) Do(_ context.Context, fn func(selection.Repos) error) error {
	return fn(m.repos())
}

type memSubs struct{ m *memStore }

func (r memSubs) Create(_ context.Context, s selection.Submission) error {
	r.m.subs[s.ID] = s
	return nil
}

func (r memSubs) Update(_ context.Context, s *selection.Submission) error {
	if r.m.subs[s.ID].Version != s.Version {
		return selection.ErrStaleSubmission()
	}
	s.Version++
	r.m.subs[s.ID] = *s
	return nil
}

func (r memSubs) FindByID(_ context.Context, id kernel.SubmissionID) (*selection.Submission, error) {
	s, ok := r.m.subs[id]
	if !ok {
		return nil, selection.ErrSubmissionNotFound()
	}
	return &s, nil
}

func (r memSubs) FindByIDs(ctx context.Context, ids []kernel.SubmissionID) ([]*selection.Submission, error) {
	var out []*selection.Submission
	for _, id := range ids {
		if s, err := r.FindByID(ctx, id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memSubs) ListByANO(_ context.Context, id kernel.UserID) ([]*selection.Submission, error) {
	var out []*selection.Submission
	for _, s := range r.m.subs {
		if s.ANOID == id {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r memSubs) ListOpen(_ context.Context, campID kernel.CampID) ([]*selection.Submission, error) {
	var out []*selection.Submission
	for _, s := range r.m.subs {
		if !s.IsFinalized() && (campID.IsEmpty() || s.CampID == campID) {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r memSubs) CountByStatus(context.Context) (map[selection.Status]int, error) {
	out := map[selection.Status]int{}
	for _, s := range r.m.subs {
		out[s.Status]++
	}
	return out, nil
}

type memFinalized struct{ m *memStore }

func (r memFinalized) Create(_ context.Context, f selection.FinalizedSelection) error {
	r.m.finalized = append(r.m.finalized, f)
	return nil
}

func (r memFinalized) List(context.Context, kernel.CampID) ([]*selection.FinalizedSelection, error) {
	out := make([]*selection.FinalizedSelection, len(r.m.finalized))
	for i := range r.m.finalized {
		out[i] = &r.m.finalized[i]
	}
	return out, nil
}

type memInstitute struct{ m *memStore }

func (r memInstitute) Create(_ context.Context, s selection.InstituteSelection) error {
	r.m.institute = append(r.m.institute, s)
	return nil
}

func (r memInstitute) List(context.Context) ([]*selection.InstituteSelection, error) {
	out := make([]*selection.InstituteSelection, len(r.m.institute))
	for i := range r.m.institute {
		out[i] = &r.m.institute[i]
	}
	return out, nil
}

type camps struct{}

func (camps) GetCamp(_ context.Context, id kernel.CampID) (*camp.CampNotification, error) {
	if id != "k1" {
		return nil, camp.ErrCampNotFound()
	}
	return &camp.CampNotification{ID: id, Title: "CATC Pune", Status: camp.StatusPublished,
		Vacancies: map[kernel.CollegeID]int{"c1": 3, "c2": 2}}, nil
}

type colleges map[kernel.UserID]*college.College

func (f colleges) ForANO(_ context.Context, id kernel.UserID) (*college.College, error) {
	c, ok := f[id]
	if !ok {
		return nil, college.ErrNoCollegeForANO()
	}
	return c, nil
}

var (
	clerk = authtest.As("clerk-1", iam.RoleClerk)
	ano1  = authtest.As("ano-1", iam.RoleANO)
	ano2  = authtest.As("ano-2", iam.RoleANO)
	admin = authtest.As("admin-1", iam.RoleAdmin)
)

func newHarness(t *testing.T) (*authtest.Harness, *memStore) {
	store := &memStore{subs: map[kernel.SubmissionID]selection.Submission{}}
	anos := colleges{
		"ano-1": {ID: "c1", Name: "Fergusson College"},
		"ano-2": {ID: "c2", Name: "SP College"},
	}
	svc := selectionsrv.NewSelectionService(store.repos(), store, camps{}, anos, nil, nil)
	return authtest.New(t, NewSelectionHandlers(svc).RegisterRoutes), store
}

func submit(t *testing.T, h *authtest.Harness, as authtest.Caller, names ...string) selection.Submission {
	t.Helper()
	req := selection.SubmitRequest{CampID: "k1"}
	for i, n := range names {
		req.Cadets = append(req.Cadets, selection.Cadet{
			Name: n, Rank: "CDT", Email: n + "@mail.in", WhatsAppNumber: "+91980000000" + string(rune('1'+i)),
		})
	}
	resp := h.Do(as, http.MethodPost, "/submissions", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sub selection.Submission
	authtest.Decode(t, resp, &sub)
	return sub
}

func TestSubmitAndTrackAsANO(t *testing.T) {
	h, store := newHarness(t)

	sub := submit(t, h, ano1, "asha", "ravi")
	assert.Equal(t, "Fergusson College", sub.CollegeName)
	assert.Equal(t, selection.StatusPending, sub.Status)

	resp := h.Do(ano1, http.MethodGet, "/submissions/mine", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tr selection.Tracking
	authtest.Decode(t, resp, &tr)
	require.Len(t, tr.Submissions, 1)
	assert.Equal(t, 1, tr.Counts.Pending)

	resp = h.Do(clerk, http.MethodPost, "/submissions", selection.SubmitRequest{CampID: "k1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, store.subs, 1)
}

func TestSubmitOverVacancy(t *testing.T) {
	h, _ := newHarness(t)

	req := selection.SubmitRequest{CampID: "k1"}
	for _, n := range []string{"a", "b", "c"} {
		req.Cadets = append(req.Cadets, selection.Cadet{Name: n, Rank: "CDT", Email: n + "@mail.in", WhatsAppNumber: "+919800000001"})
	}
	resp := h.Do(ano2, http.MethodPost, "/submissions", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSubmissionIsOwnerOnlyForANOs(t *testing.T) {
	h, _ := newHarness(t)
	sub := submit(t, h, ano1, "asha")
	path := "/submissions/" + string(sub.ID)

	resp := h.Do(ano1, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.Do(ano2, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.Do(clerk, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReviewRoutesAreGated(t *testing.T) {
	h, store := newHarness(t)
	sub := submit(t, h, ano1, "asha")
	decide := "/selections/submissions/" + string(sub.ID) + "/decision"
	finalize := selection.FinalizeRequest{SubmissionIDs: []kernel.SubmissionID{sub.ID}}

	for _, as := range []authtest.Caller{ano1, admin} {
		resp := h.Do(as, http.MethodPut, decide, selection.DecisionRequest{CadetIndex: 0, Status: selection.CadetSelected, Version: 1})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, as.Role)

		resp = h.Do(as, http.MethodPost, "/selections/finalize", finalize)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, as.Role)

		resp = h.Do(as, http.MethodGet, "/selections/queue", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, as.Role)
	}
	assert.Equal(t, selection.StatusPending, store.subs[sub.ID].Status)
}

func TestReviewerDecidesThenFinalizes(t *testing.T) {
	h, store := newHarness(t)
	picked := submit(t, h, ano1, "asha", "ravi")
	undecided := submit(t, h, ano2, "meera")

	resp := h.Do(clerk, http.MethodGet, "/selections/queue", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var queue struct {
		Total int `json:"total"`
	}
	authtest.Decode(t, resp, &queue)
	assert.Equal(t, 2, queue.Total)

	resp = h.Do(clerk, http.MethodPut, "/selections/submissions/"+string(picked.ID)+"/decision",
		selection.DecisionRequest{CadetIndex: 1, Status: selection.CadetSelected, Version: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decided selection.Submission
	authtest.Decode(t, resp, &decided)
	assert.Equal(t, 2, decided.Version)

	resp = h.Do(clerk, http.MethodPut, "/selections/submissions/"+string(picked.ID)+"/decision",
		selection.DecisionRequest{CadetIndex: 0, Status: selection.CadetReserve, Version: 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "stale version")

	resp = h.Do(clerk, http.MethodPost, "/selections/finalize", selection.FinalizeRequest{
		SubmissionIDs: []kernel.SubmissionID{picked.ID, undecided.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res selection.FinalizeResult
	authtest.Decode(t, resp, &res)
	assert.Equal(t, []kernel.SubmissionID{picked.ID}, res.Finalized)
	assert.Equal(t, []selection.Skipped{{SubmissionID: undecided.ID, Reason: "no decisions"}}, res.Skipped)
	assert.Equal(t, selection.StatusFinalized, store.subs[picked.ID].Status)

	resp = h.Do(clerk, http.MethodGet, "/selections/finalized", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list selection.FinalizedList
	authtest.Decode(t, resp, &list)
	assert.Equal(t, 1, list.TotalSelected)
}

func TestInstituteExportCSV(t *testing.T) {
	h, _ := newHarness(t)
	sub := submit(t, h, ano1, "asha", "ravi")

	resp := h.Do(clerk, http.MethodPost, "/selections/institute", selection.InstituteRequest{Picks: []selection.Pick{
		{SubmissionID: sub.ID, CadetEmail: "ravi@mail.in"},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var is selection.InstituteSelection
	authtest.Decode(t, resp, &is)
	assert.Equal(t, 1, is.TotalSelected)

	resp = h.Do(clerk, http.MethodGet, "/selections/institute/export?id="+is.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="institute-selections.csv"`, resp.Header.Get("Content-Disposition"))

	defer resp.Body.Close()
	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Name", "Email", "WhatsApp", "College", "Camp"},
		{"CDT", "ravi", "ravi@mail.in", "+919800000002", "Fergusson College", "CATC Pune"},
	}, rows)

	resp = h.Do(clerk, http.MethodGet, "/selections/institute/export?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.Do(ano1, http.MethodGet, "/selections/institute/export", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
