package dashboardapi

import (
	"github.com/Abraxas-365/nccerp/pkg/dashboard/dashboardsrv"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandlers struct {
	service *dashboardsrv.DashboardService
}

func NewDashboardHandlers(service *dashboardsrv.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{service: service}
}

func (h *DashboardHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	router.Get("/dashboard", mw.Authenticate(), mw.RequireScope(scopes.DashboardRead), h.Get)
}

// Get returns the stats for the caller's role
func (h *DashboardHandlers) Get(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	view, err := h.service.For(c.UserContext(), ac)
	if err != nil {
		return err
	}
	return c.JSON(view)
}
