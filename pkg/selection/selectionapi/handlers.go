package selectionapi

import (
	"bytes"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/selection"
	"github.com/Abraxas-365/nccerp/pkg/selection/selectionsrv"
	"github.com/gofiber/fiber/v2"
)

type SelectionHandlers struct {
	service *selectionsrv.SelectionService
}

func NewSelectionHandlers(service *selectionsrv.SelectionService) *SelectionHandlers {
	return &SelectionHandlers{service: service}
}

func (h *SelectionHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	subs := router.Group("/submissions", mw.Authenticate())
	subs.Post("/", mw.RequireScope(scopes.SubmissionsWrite), h.Submit)
	subs.Get("/mine", mw.RequireScope(scopes.SubmissionsWrite), h.Track)
	subs.Get("/:id", mw.RequireScope(scopes.SubmissionsRead), h.Get)

	sel := router.Group("/selections", mw.Authenticate())
	sel.Get("/queue", mw.RequireScope(scopes.SelectionsReview), h.Queue)
	sel.Put("/submissions/:id/decision", mw.RequireScope(scopes.SelectionsReview), h.Decide)
	sel.Post("/finalize", mw.RequireScope(scopes.SelectionsFinalize), h.Finalize)
	sel.Get("/finalized", mw.RequireScope(scopes.SelectionsReview), h.Finalized)
	sel.Post("/institute", mw.RequireScope(scopes.InstituteWrite), h.SelectInstitute)
	sel.Get("/institute", mw.RequireScope(scopes.InstituteWrite), h.Institute)
	sel.Get("/institute/export", mw.RequireScope(scopes.InstituteWrite), h.Export)
}

func (h *SelectionHandlers) Submit(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	var req selection.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	sub, err := h.service.Submit(c.UserContext(), ac, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *SelectionHandlers) Track(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	tr, err := h.service.Track(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	return c.JSON(tr)
}

// Get lets reviewers read any submission and ANOs only their own
func (h *SelectionHandlers) Get(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	id := kernel.SubmissionID(c.Params("id"))

	var sub *selection.Submission
	if ac.HasRole(string(iam.RoleANO)) {
		sub, err = h.service.GetOwned(c.UserContext(), ac.UserID, id)
	} else {
		sub, err = h.service.GetSubmission(c.UserContext(), id)
	}
	if err != nil {
		return err
	}
	return c.JSON(sub)
}

func queueFilter(c *fiber.Ctx) selection.QueueFilter {
	return selection.QueueFilter{CampID: kernel.CampID(c.Query("camp_id")), Query: c.Query("q")}
}

func (h *SelectionHandlers) Queue(c *fiber.Ctx) error {
	subs, err := h.service.ReviewQueue(c.UserContext(), queueFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"submissions": subs, "total": len(subs)})
}

func (h *SelectionHandlers) Decide(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	var req selection.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	sub, err := h.service.RecordDecision(c.UserContext(), ac, kernel.SubmissionID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(sub)
}

func (h *SelectionHandlers) Finalize(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	var req selection.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	res, err := h.service.Finalize(c.UserContext(), ac, req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *SelectionHandlers) Finalized(c *fiber.Ctx) error {
	list, err := h.service.ListFinalized(c.UserContext(), queueFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *SelectionHandlers) SelectInstitute(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	var req selection.InstituteRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	is, err := h.service.SelectInstitute(c.UserContext(), ac, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(is)
}

func (h *SelectionHandlers) Institute(c *fiber.Ctx) error {
	list, err := h.service.ListInstitute(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *SelectionHandlers) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportInstitute(c.UserContext(), c.Query("id"), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="institute-selections.csv"`)
	return c.Send(buf.Bytes())
}
