package collegesrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	colleges map[kernel.CollegeID]college.College
}

func (m *memRepo) Save(_ context.Context, c college.College) error {
	m.colleges[c.ID] = c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id kernel.CollegeID) (*college.College, error) {
	c, ok := m.colleges[id]
	if !ok {
		return nil, college.ErrCollegeNotFound()
	}
	return &c, nil
}

func (m *memRepo) FindByANO(_ context.Context, id kernel.UserID) (*college.College, error) {
	for _, c := range m.colleges {
		if c.HasANO(id) {
			return &c, nil
		}
	}
	return nil, college.ErrNoCollegeForANO()
}

func (m *memRepo) FindByIDs(_ context.Context, ids []kernel.CollegeID) ([]*college.College, error) {
	var out []*college.College
	for _, id := range ids {
		if c, ok := m.colleges[id]; ok {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRepo) ListByUnit(_ context.Context, unitID kernel.UnitID) ([]*college.College, error) {
	var out []*college.College
	for _, c := range m.colleges {
		if c.UnitID == unitID {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRepo) List(context.Context) ([]*college.College, error) {
	var out []*college.College
	for _, c := range m.colleges {
		out = append(out, &c)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id kernel.CollegeID) error {
	delete(m.colleges, id)
	return nil
}

type unitBook map[kernel.UnitID]unit.Unit

func (b unitBook) GetUnit(_ context.Context, id kernel.UnitID) (*unit.Unit, error) {
	u, ok := b[id]
	if !ok {
		return nil, unit.ErrUnitNotFound()
	}
	return &u, nil
}

type roleBook map[kernel.UserID]iam.Role

func (b roleBook) RequireRole(_ context.Context, role iam.Role, ids ...kernel.UserID) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		r, ok := b[id]
		if !ok {
			return nil, user.ErrUserNotFound()
		}
		if r != role {
			return nil, user.ErrWrongRole()
		}
		out = append(out, &user.User{ID: id, Role: r})
	}
	return out, nil
}

func newService() (*CollegeService, *memRepo) {
	repo := &memRepo{colleges: map[kernel.CollegeID]college.College{}}
	units := unitBook{"unit-1": {ID: "unit-1", Name: "5 Maharashtra Bn"}}
	roles := roleBook{"ano-1": iam.RoleANO, "ano-2": iam.RoleANO, "clerk-1": iam.RoleClerk}
	return NewCollegeService(repo, units, roles), repo
}

func TestCreateCollegeNormalizesANOs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	c, err := svc.CreateCollege(ctx, college.CollegeRequest{
		Name:   " Fergusson College ",
		UnitID: "unit-1",
		ANOs:   []kernel.UserID{"ano-1", " ", "ano-2", "ano-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fergusson College", c.Name)
	assert.Equal(t, []kernel.UserID{"ano-1", "ano-2"}, c.ANOs)

	found, err := svc.ForANO(ctx, "ano-2")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
}

func TestCreateCollegeRejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateCollege(ctx, college.CollegeRequest{Name: "X", UnitID: "unit-1"})
	assert.True(t, errx.IsType(err, errx.TypeValidation), "at least one ano")

	_, err = svc.CreateCollege(ctx, college.CollegeRequest{Name: "X", UnitID: "nope", ANOs: []kernel.UserID{"ano-1"}})
	assert.True(t, errx.HasCode(err, unit.CodeUnitNotFound))

	_, err = svc.CreateCollege(ctx, college.CollegeRequest{Name: "X", UnitID: "unit-1", ANOs: []kernel.UserID{"ano-1", "clerk-1"}})
	assert.True(t, errx.HasCode(err, user.CodeWrongRole))
}

func TestUpdateCollege(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	c, err := svc.CreateCollege(ctx, college.CollegeRequest{Name: "X", UnitID: "unit-1", ANOs: []kernel.UserID{"ano-1"}})
	require.NoError(t, err)

	updated, err := svc.UpdateCollege(ctx, c.ID, college.CollegeRequest{Name: "Y", UnitID: "unit-1", ANOs: []kernel.UserID{"ano-2"}})
	require.NoError(t, err)
	assert.Equal(t, "Y", updated.Name)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	_, err = svc.ForANO(ctx, "ano-1")
	assert.True(t, errx.HasCode(err, college.CodeNoCollegeForANO))
}
