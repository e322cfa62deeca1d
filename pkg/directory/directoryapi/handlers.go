package directoryapi

import (
	"context"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/directory/directorysrv"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// ANOColleges resolves the college of the calling ANO
type ANOColleges interface {
	ForANO(ctx context.Context, anoID kernel.UserID) (*college.College, error)
}

type DirectoryHandlers struct {
	service  *directorysrv.DirectoryService
	colleges ANOColleges
}

func NewDirectoryHandlers(service *directorysrv.DirectoryService, colleges ANOColleges) *DirectoryHandlers {
	return &DirectoryHandlers{service: service, colleges: colleges}
}

// ownCollege returns the caller's college name when the caller is an ANO.
// ANOs only ever see their own college, whatever the query names.
func (h *DirectoryHandlers) ownCollege(c *fiber.Ctx) (string, bool, error) {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return "", false, err
	}
	if !ac.HasRole(iam.RoleANO.String()) {
		return "", false, nil
	}
	col, err := h.colleges.ForANO(c.UserContext(), ac.UserID)
	if err != nil {
		return "", true, err
	}
	return col.Name, true, nil
}

func (h *DirectoryHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/directory", mw.Authenticate())

	g.Get("/anos", mw.RequireScope(scopes.DirectoryRead, scopes.CampsWrite), h.ANOs)
	g.Get("/roster", mw.RequireScope(scopes.DirectoryRead), h.Roster)
	g.Get("/test", mw.RequireScope(scopes.DirectoryAdmin), h.Test)
	g.Get("/reconcile", mw.RequireScope(scopes.DirectoryAdmin), h.Reconcile)
	g.Post("/refresh", mw.RequireScope(scopes.DirectoryAdmin), h.Refresh)
}

// ANOs filters by a comma separated colleges query
func (h *DirectoryHandlers) ANOs(c *fiber.Ctx) error {
	own, isANO, err := h.ownCollege(c)
	if err != nil {
		return err
	}
	var names []string
	if isANO {
		names = []string{own}
	} else {
		for _, n := range strings.Split(c.Query("colleges"), ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	contacts, err := h.service.ByColleges(c.UserContext(), names)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"contacts": contacts, "total": len(contacts)})
}

func (h *DirectoryHandlers) Roster(c *fiber.Ctx) error {
	own, isANO, err := h.ownCollege(c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.Query("college"))
	if isANO {
		name = own
	}
	if name == "" {
		return errx.Validation("college is required").WithDetail("college", "required")
	}
	cadets, err := h.service.RosterForCollege(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cadets": cadets, "total": len(cadets)})
}

func (h *DirectoryHandlers) Test(c *fiber.Ctx) error {
	return c.JSON(h.service.TestConnection(c.UserContext()))
}

func (h *DirectoryHandlers) Reconcile(c *fiber.Ctx) error {
	report, err := h.service.Reconcile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *DirectoryHandlers) Refresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.UserContext()); err != nil {
		return errx.Wrap(err, "failed to refresh directory cache", errx.TypeInternal)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
