package collegeapi

import (
	"github.com/Abraxas-365/nccerp/pkg/college"
	"github.com/Abraxas-365/nccerp/pkg/college/collegesrv"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type CollegeHandlers struct {
	service *collegesrv.CollegeService
}

func NewCollegeHandlers(service *collegesrv.CollegeService) *CollegeHandlers {
	return &CollegeHandlers{service: service}
}

func (h *CollegeHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/colleges", mw.Authenticate())

	g.Get("/", mw.RequireScope(scopes.CollegesRead), h.List)
	g.Get("/mine", mw.RequireScope(scopes.SubmissionsWrite), h.Mine)
	g.Get("/:id", mw.RequireScope(scopes.CollegesRead), h.Get)
	g.Post("/", mw.RequireScope(scopes.CollegesWrite), h.Create)
	g.Put("/:id", mw.RequireScope(scopes.CollegesWrite), h.Update)
	g.Delete("/:id", mw.RequireScope(scopes.CollegesWrite), h.Delete)
}

// List accepts an optional unit_id filter
func (h *CollegeHandlers) List(c *fiber.Ctx) error {
	var (
		colleges []*college.College
		err      error
	)
	if unitID := c.Query("unit_id"); unitID != "" {
		colleges, err = h.service.ListByUnit(c.UserContext(), kernel.UnitID(unitID))
	} else {
		colleges, err = h.service.ListColleges(c.UserContext())
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"colleges": colleges, "total": len(colleges)})
}

func (h *CollegeHandlers) Mine(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	col, err := h.service.ForANO(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	return c.JSON(col)
}

func (h *CollegeHandlers) Get(c *fiber.Ctx) error {
	col, err := h.service.GetCollege(c.UserContext(), kernel.CollegeID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(col)
}

func (h *CollegeHandlers) Create(c *fiber.Ctx) error {
	var req college.CollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	col, err := h.service.CreateCollege(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(col)
}

func (h *CollegeHandlers) Update(c *fiber.Ctx) error {
	var req college.CollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	col, err := h.service.UpdateCollege(c.UserContext(), kernel.CollegeID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(col)
}

func (h *CollegeHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteCollege(c.UserContext(), kernel.CollegeID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
