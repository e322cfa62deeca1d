package unitsrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	units map[kernel.UnitID]unit.Unit
}

func (m *memRepo) Save(_ context.Context, u unit.Unit) error {
	m.units[u.ID] = u
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id kernel.UnitID) (*unit.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, unit.ErrUnitNotFound()
	}
	return &u, nil
}

func (m *memRepo) FindByOfficer(_ context.Context, id kernel.UserID) ([]*unit.Unit, error) {
	var out []*unit.Unit
	for _, u := range m.units {
		if u.HasReviewer(id) {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (m *memRepo) List(context.Context) ([]*unit.Unit, error) {
	var out []*unit.Unit
	for _, u := range m.units {
		out = append(out, &u)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id kernel.UnitID) error {
	if _, ok := m.units[id]; !ok {
		return unit.ErrUnitNotFound()
	}
	delete(m.units, id)
	return nil
}

// roleBook is a RoleChecker over a fixed set of users
type roleBook map[kernel.UserID]user.User

func (b roleBook) RequireRole(_ context.Context, role iam.Role, ids ...kernel.UserID) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		u, ok := b[id]
		if !ok {
			return nil, user.ErrUserNotFound()
		}
		if u.Role != role {
			return nil, user.ErrWrongRole()
		}
		out = append(out, &u)
	}
	return out, nil
}

func newService() (*UnitService, *memRepo) {
	repo := &memRepo{units: map[kernel.UnitID]unit.Unit{}}
	book := roleBook{
		"co-1":    {ID: "co-1", Name: "Col. Sharma", Role: iam.RoleCO},
		"co-2":    {ID: "co-2", Name: "Col. Iyer", Role: iam.RoleCO},
		"clerk-1": {ID: "clerk-1", Name: "Verma", Role: iam.RoleClerk},
		"ano-1":   {ID: "ano-1", Name: "Lt. Rao", Role: iam.RoleANO},
	}
	return NewUnitService(repo, book), repo
}

func TestCreateUnit(t *testing.T) {
	svc, repo := newService()

	dto, err := svc.CreateUnit(context.Background(), unit.UnitRequest{
		Name:     "  5 Maharashtra Bn ",
		COID:     "co-1",
		ClerkID:  "clerk-1",
		Colleges: []string{" Fergusson College ", "", "  ", "SP College"},
	})
	require.NoError(t, err)

	assert.Equal(t, "5 Maharashtra Bn", dto.Name)
	assert.Equal(t, []string{"Fergusson College", "SP College"}, dto.Colleges)
	assert.Equal(t, "Col. Sharma", dto.COName)
	assert.Equal(t, "Verma", dto.ClerkName)
	assert.Len(t, repo.units, 1)
}

func TestCreateUnitRejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cases := map[string]struct {
		req  unit.UnitRequest
		code *errx.ErrorCode
	}{
		"no colleges":   {unit.UnitRequest{Name: "A", COID: "co-1", ClerkID: "clerk-1", Colleges: []string{" "}}, unit.CodeInvalidUnit},
		"same officer":  {unit.UnitRequest{Name: "A", COID: "co-1", ClerkID: "co-1", Colleges: []string{"X"}}, unit.CodeSameOfficer},
		"co not co":     {unit.UnitRequest{Name: "A", COID: "ano-1", ClerkID: "clerk-1", Colleges: []string{"X"}}, user.CodeWrongRole},
		"clerk missing": {unit.UnitRequest{Name: "A", COID: "co-1", ClerkID: "ghost", Colleges: []string{"X"}}, user.CodeUserNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateUnit(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, errx.HasCode(err, tc.code), "got %v", err)
		})
	}

	_, err := svc.CreateUnit(ctx, unit.UnitRequest{COID: "co-1", ClerkID: "clerk-1", Colleges: []string{"X"}})
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestUpdateUnitKeepsCreatedAt(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.CreateUnit(ctx, unit.UnitRequest{Name: "A", COID: "co-1", ClerkID: "clerk-1", Colleges: []string{"X"}})
	require.NoError(t, err)

	updated, err := svc.UpdateUnit(ctx, created.ID, unit.UnitRequest{Name: "B", COID: "co-2", ClerkID: "clerk-1", Colleges: []string{"Y"}})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, kernel.UserID("co-2"), updated.COID)

	_, err = svc.UpdateUnit(ctx, "missing", unit.UnitRequest{Name: "B", COID: "co-2", ClerkID: "clerk-1", Colleges: []string{"Y"}})
	assert.True(t, errx.HasCode(err, unit.CodeUnitNotFound))
}

func TestForReviewerPrefersCO(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.units["u-clerk"] = unit.Unit{ID: "u-clerk", COID: "co-2", ClerkID: "co-1"}
	repo.units["u-co"] = unit.Unit{ID: "u-co", COID: "co-1", ClerkID: "clerk-1"}

	u, err := svc.ForReviewer(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, kernel.UnitID("u-co"), u.ID)

	u, err = svc.ForReviewer(ctx, "clerk-1")
	require.NoError(t, err)
	assert.Equal(t, kernel.UnitID("u-co"), u.ID)

	_, err = svc.ForReviewer(ctx, "ano-1")
	assert.True(t, errx.HasCode(err, unit.CodeNoReviewerUnit))
}
