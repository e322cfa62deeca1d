package contactapi

import (
	"github.com/Abraxas-365/nccerp/pkg/contact"
	"github.com/Abraxas-365/nccerp/pkg/contact/contactsrv"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/gofiber/fiber/v2"
)

type ContactHandlers struct {
	service *contactsrv.ContactService
}

func NewContactHandlers(service *contactsrv.ContactService) *ContactHandlers {
	return &ContactHandlers{service: service}
}

func (h *ContactHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/contacts", mw.Authenticate())

	g.Get("/", mw.RequireScope(scopes.ContactsRead), h.List)
	g.Get("/:id", mw.RequireScope(scopes.ContactsRead), h.Get)
	g.Post("/", mw.RequireScope(scopes.ContactsWrite), h.Create)
	g.Put("/:id", mw.RequireScope(scopes.ContactsWrite), h.Update)
	g.Delete("/:id", mw.RequireScope(scopes.ContactsWrite), h.Delete)
}

func (h *ContactHandlers) List(c *fiber.Ctx) error {
	contacts, err := h.service.ListContacts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"contacts": contacts, "total": len(contacts)})
}

func (h *ContactHandlers) Get(c *fiber.Ctx) error {
	ct, err := h.service.GetContact(c.UserContext(), contact.ContactID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(ct)
}

func (h *ContactHandlers) Create(c *fiber.Ctx) error {
	var req contact.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	ct, err := h.service.CreateContact(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ct)
}

func (h *ContactHandlers) Update(c *fiber.Ctx) error {
	var req contact.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	ct, err := h.service.UpdateContact(c.UserContext(), contact.ContactID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(ct)
}

func (h *ContactHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteContact(c.UserContext(), contact.ContactID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
