package usersrv

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/ptrx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	users    map[kernel.UserID]user.User
	emailErr error
}

func newMemRepo() *memRepo { return &memRepo{users: map[kernel.UserID]user.User{}} }

func (m *memRepo) Save(_ context.Context, u user.User) error {
	for _, o := range m.users {
		if o.Email == u.Email && o.ID != u.ID {
			return user.ErrEmailTaken()
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	return &u, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if m.emailErr != nil {
		return nil, m.emailErr
	}
	for _, u := range m.users {
		if u.Email == user.NormalizeEmail(email) {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (m *memRepo) FindByIDs(_ context.Context, ids []kernel.UserID) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (m *memRepo) List(_ context.Context, f user.ListFilter) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if !f.IncludeAdmin && u.Role == iam.RoleAdmin {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !u.Matches(f.Query) {
			continue
		}
		out = append(out, &u)
	}
	return out, nil
}

func (m *memRepo) Count(context.Context) (int, error) { return len(m.users), nil }

func (m *memRepo) Delete(_ context.Context, id kernel.UserID) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound()
	}
	delete(m.users, id)
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(h, p string) bool      { return h == "h:"+p }

type nopAudit struct{ events []string }

func (a *nopAudit) LogLoginAttempt(context.Context, string, kernel.UserID, bool, string, string) {}
func (a *nopAudit) LogAccountCreated(_ context.Context, _ kernel.UserID, role iam.Role, _ kernel.UserID) {
	a.events = append(a.events, "created:"+role.String())
}
func (a *nopAudit) LogEvent(_ context.Context, event string, _ map[string]any) {
	a.events = append(a.events, event)
}

func newService() (*UserService, *memRepo, *nopAudit) {
	repo, audit := newMemRepo(), &nopAudit{}
	return NewUserService(repo, plainHasher{}, audit), repo, audit
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, repo, audit := newService()

	dto, err := svc.CreateUser(ctx, "admin-1", user.CreateUserRequest{
		Name: " Lt Rao ", Email: " Rao@College.IN ", Password: "secret1", Role: iam.RoleANO,
	})
	require.NoError(t, err)
	assert.Equal(t, "rao@college.in", dto.Email)
	assert.Equal(t, "Lt Rao", dto.Name)
	assert.Equal(t, "h:secret1", repo.users[dto.ID].PasswordHash)
	assert.Equal(t, []string{"created:ano"}, audit.events)

	_, err = svc.CreateUser(ctx, "admin-1", user.CreateUserRequest{
		Name: "Other", Email: "rao@college.in", Password: "secret1", Role: iam.RoleCO,
	})
	assert.ErrorIs(t, err, user.ErrEmailTaken())
}

func TestCreateUserRejectsAdminAndShortPassword(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.CreateUser(context.Background(), "a", user.CreateUserRequest{
		Name: "X", Email: "x@y.in", Password: "secret1", Role: iam.RoleAdmin,
	})
	assert.True(t, errx.IsType(err, errx.TypeValidation))

	_, err = svc.CreateUser(context.Background(), "a", user.CreateUserRequest{
		Name: "X", Email: "x@y.in", Password: "123", Role: iam.RoleCO,
	})
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}

func TestUpdateAndDeleteProtectAdmins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	admin, err := svc.CreateAdmin(ctx, "Root", "root@ncc.in", "secret1")
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, admin.ID, user.UpdateUserRequest{Name: ptrx.String("x")})
	assert.ErrorIs(t, err, user.ErrAdminProtected())
	assert.ErrorIs(t, svc.DeleteUser(ctx, "a", admin.ID), user.ErrAdminProtected())
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()

	a, _ := svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "A", Email: "a@x.in", Password: "secret1", Role: iam.RoleClerk})
	b, _ := svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "B", Email: "b@x.in", Password: "secret1", Role: iam.RoleClerk})

	_, err := svc.UpdateUser(ctx, b.ID, user.UpdateUserRequest{Email: ptrx.String("A@x.in")})
	assert.ErrorIs(t, err, user.ErrEmailTaken())

	role := iam.RoleCO
	got, err := svc.UpdateUser(ctx, a.ID, user.UpdateUserRequest{Role: &role, Password: ptrx.String("newpass")})
	require.NoError(t, err)
	assert.Equal(t, iam.RoleCO, got.Role)
	assert.Equal(t, "h:newpass", repo.users[a.ID].PasswordHash)
}

func TestUpdateUserSurfacesEmailLookupFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()

	a, err := svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "A", Email: "a@x.in", Password: "secret1", Role: iam.RoleClerk})
	require.NoError(t, err)

	down := errx.Internal("database unavailable")
	repo.emailErr = down

	_, err = svc.UpdateUser(ctx, a.ID, user.UpdateUserRequest{Email: ptrx.String("new@x.in")})
	assert.ErrorIs(t, err, down)
	assert.Equal(t, "a@x.in", repo.users[a.ID].Email)
}

func TestListUsersHidesAdmins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, _ = svc.CreateAdmin(ctx, "Root", "root@ncc.in", "secret1")
	_, _ = svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "Major Singh", Email: "singh@ncc.in", Password: "secret1", Role: iam.RoleCO})
	_, _ = svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "Clerk Das", Email: "das@ncc.in", Password: "secret1", Role: iam.RoleClerk})

	all, err := svc.ListUsers(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	found, err := svc.ListUsers(ctx, "SINGH", "")
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.True(t, strings.HasPrefix(found.Users[0].Name, "Major"))

	cos, err := svc.Officers(ctx, iam.RoleCO)
	require.NoError(t, err)
	assert.Len(t, cos, 1)

	_, err = svc.Officers(ctx, iam.RoleAdmin)
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	co, _ := svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "CO", Email: "co@x.in", Password: "secret1", Role: iam.RoleCO})
	clerk, _ := svc.CreateUser(ctx, "a", user.CreateUserRequest{Name: "Clerk", Email: "cl@x.in", Password: "secret1", Role: iam.RoleClerk})

	got, err := svc.RequireRole(ctx, iam.RoleCO, co.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.RequireRole(ctx, iam.RoleCO, clerk.ID)
	assert.ErrorIs(t, err, user.ErrWrongRole())

	_, err = svc.RequireRole(ctx, iam.RoleCO, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound())
}
