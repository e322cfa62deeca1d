package dashboardapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/camp"
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/dashboard"
	"github.com/Abraxas-365/nccerp/pkg/dashboard/dashboardsrv"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct{}

func (stub) CountUsers(context.Context) (int, error)     { return 9, nil }
func (stub) CountPublished(context.Context) (int, error) { return 2, nil }
func (stub) VacanciesForCollege(context.Context, kernel.CollegeID) (*camp.CollegeVacancies, error) {
	return &camp.CollegeVacancies{}, nil
}
func (stub) ListColleges(context.Context) ([]*college.College, error) {
	return []*college.College{{ID: "c1"}}, nil
}
func (stub) ForANO(context.Context, kernel.UserID) (*college.College, error) {
	return nil, college.ErrNoCollegeForANO()
}
func (stub) CountByStatus(context.Context) (map[selection.Status]int, error) {
	return map[selection.Status]int{selection.StatusPending: 5}, nil
}
func (stub) ReviewQueue(context.Context, selection.QueueFilter) ([]*selection.Submission, error) {
	return nil, nil
}
func (stub) ListFinalized(context.Context, selection.QueueFilter) (*selection.FinalizedList, error) {
	return &selection.FinalizedList{}, nil
}
func (stub) Track(context.Context, kernel.UserID) (*selection.Tracking, error) {
	return &selection.Tracking{}, nil
}

func newApp(t *testing.T) (*fiber.App, *auth.JWTService) {
	t.Helper()
	jwt := auth.NewJWTService("dashboard-secret-0123456", time.Hour, "nccerp")
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		e := errx.From(err)
		return c.Status(e.HTTPStatus).JSON(e.ToResponse("", false))
	}})
	NewDashboardHandlers(dashboardsrv.NewDashboardService(stub{}, stub{}, stub{}, stub{})).
		RegisterRoutes(app, auth.NewAuthMiddleware(jwt))
	return app, jwt
}

func get(t *testing.T, app *fiber.App, jwt *auth.JWTService, role iam.Role) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if role != "" {
		tok, _, err := jwt.GenerateAccessToken(auth.TokenClaims{UserID: "u1", Role: role, Scopes: scopes.ForRole(role)})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdminView(t *testing.T) {
	app, jwt := newApp(t)

	resp := get(t, app, jwt, iam.RoleAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view dashboard.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.NotNil(t, view.Admin)
	assert.Equal(t, string(iam.RoleAdmin), view.Role)
	assert.Equal(t, 9, view.Admin.TotalUsers)
	assert.Equal(t, 2, view.Admin.ActiveCamps)
	assert.Equal(t, 1, view.Admin.Colleges)
	assert.Equal(t, 5, view.Admin.PendingReviews)
}

func TestANOWithoutCollegeIsNotFound(t *testing.T) {
	app, jwt := newApp(t)

	resp := get(t, app, jwt, iam.RoleANO)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequiresToken(t *testing.T) {
	app, jwt := newApp(t)

	resp := get(t, app, jwt, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
