package userapi

import (
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type UserHandlers struct {
	service *usersrv.UserService
}

func NewUserHandlers(service *usersrv.UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

func (h *UserHandlers) RegisterRoutes(router fiber.Router, mw *auth.TokenMiddleware) {
	g := router.Group("/users", mw.Authenticate())

	g.Get("/", mw.RequireScope(scopes.UsersRead), h.List)
	g.Get("/officers/:role", mw.RequireScope(scopes.UsersRead, scopes.UnitsWrite, scopes.CollegesWrite), h.Officers)
	g.Get("/:id", mw.RequireScope(scopes.UsersRead), h.Get)
	g.Post("/", mw.RequireScope(scopes.UsersWrite), h.Create)
	g.Put("/:id", mw.RequireScope(scopes.UsersWrite), h.Update)
	g.Delete("/:id", mw.RequireScope(scopes.UsersWrite), h.Delete)
}

func (h *UserHandlers) List(c *fiber.Ctx) error {
	var role iam.Role
	if r := c.Query("role"); r != "" {
		parsed, err := iam.ParseRole(r)
		if err != nil {
			return err
		}
		role = parsed
	}
	resp, err := h.service.ListUsers(c.UserContext(), c.Query("q"), role)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandlers) Officers(c *fiber.Ctx) error {
	role, err := iam.ParseRole(c.Params("role"))
	if err != nil {
		return err
	}
	users, err := h.service.Officers(c.UserContext(), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandlers) Get(c *fiber.Ctx) error {
	u, err := h.service.GetUser(c.UserContext(), kernel.UserID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UserHandlers) Create(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	var req user.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	u, err := h.service.CreateUser(c.UserContext(), ac.UserID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *UserHandlers) Update(c *fiber.Ctx) error {
	var req user.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}
	u, err := h.service.UpdateUser(c.UserContext(), kernel.UserID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UserHandlers) Delete(c *fiber.Ctx) error {
	ac, err := auth.MustFromFiber(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.UserContext(), ac.UserID, kernel.UserID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
