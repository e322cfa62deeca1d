package auth

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Authenticator checks passwords and issues tokens
type Authenticator struct {
	users  user.UserRepository
	hasher user.PasswordHasher
	tokens TokenService
	audit  AuditService
}

func NewAuthenticator(users user.UserRepository, hasher user.PasswordHasher, tokens TokenService, audit AuditService) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens, audit: audit}
}

func (a *Authenticator) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := kernel.Validate(req); err != nil {
		return nil, err
	}

	u, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			a.audit.LogLoginAttempt(ctx, req.Email, "", false, ip, userAgent)
			return nil, ErrInvalidCredentials()
		}
		return nil, err
	}
	if !a.hasher.Compare(u.PasswordHash, req.Password) {
		a.audit.LogLoginAttempt(ctx, req.Email, u.ID, false, ip, userAgent)
		return nil, ErrInvalidCredentials()
	}

	granted := scopes.ForRole(u.Role)
	token, exp, err := a.tokens.GenerateAccessToken(TokenClaims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Scopes: granted,
	})
	if err != nil {
		return nil, err
	}

	a.audit.LogLoginAttempt(ctx, req.Email, u.ID, true, ip, userAgent)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        u.ToDTO(),
		Scopes:      granted,
	}, nil
}

// Me reloads the caller so renamed or re-roled accounts show current data
func (a *Authenticator) Me(ctx context.Context, id kernel.UserID) (*user.UserDTO, error) {
	u, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

type AuthHandlers struct {
	auth *Authenticator
}

func NewAuthHandlers(a *Authenticator) *AuthHandlers {
	return &AuthHandlers{auth: a}
}

func (h *AuthHandlers) RegisterRoutes(router fiber.Router, mw *TokenMiddleware) {
	g := router.Group("/auth")
	g.Post("/login", h.Login)
	g.Get("/me", mw.Authenticate(), h.Me)
}

func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("invalid request body").WithCause(err)
	}

	resp, err := h.auth.Login(c.UserContext(), req, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	ac, err := MustFromFiber(c)
	if err != nil {
		return err
	}
	u, err := h.auth.Me(c.UserContext(), ac.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u, "scopes": ac.Scopes})
}
