package unitapi

import (
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/unit"
	"github.com/Abraxas-365/nccerp/pkg/unit/unitsrv"
	"github.com/gofiber/fiber/v2"
)

type UnitHandlers struct {
	service *unitsrv.UnitService
}

func NewUnitHandlers(service *unitsrv.UnitService) *UnitHandlers {
	return &UnitHandlers{service: service}
}

func (h *UnitHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/units", mw.Authenticate())

	g.Get("/", mw.RequireScope(scopes.UnitsRead), h.List)
	g.Get("/mine", mw.RequireScope(scopes.SelectionsReview), h.Mine)
	g.Get("/:id", mw.RequireScope(scopes.UnitsRead), h.Get)
	g.Post("/", mw.RequireScope(scopes.UnitsWrite), h.Create)
	g.Put("/:id", mw.RequireScope(scopes.UnitsWrite), h.Update)
	g.Delete("/:id", mw.RequireScope(scopes.UnitsWrite), h.Delete)
}

func (h *UnitHandlers) List(c *fiber.Ctx) error {
	units, err := h.service.ListUnits(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"units": units, "total": len(units)})
}

func (h *UnitHandlers) Mine(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	u, err := h.service.ForReviewer(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UnitHandlers) Get(c *fiber.Ctx) error {
	u, err := h.service.GetUnit(c.UserContext(), kernel.UnitID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UnitHandlers) Create(c *fiber.Ctx) error {
	var req unit.UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	u, err := h.service.CreateUnit(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *UnitHandlers) Update(c *fiber.Ctx) error {
	var req unit.UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	u, err := h.service.UpdateUnit(c.UserContext(), kernel.UnitID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UnitHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteUnit(c.UserContext(), kernel.UnitID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
