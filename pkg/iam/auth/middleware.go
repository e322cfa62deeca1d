package auth

import (
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const localsKey = "auth"

// TokenMiddleware authenticates bearer tokens and enforces roles and scopes
type TokenMiddleware struct {
	tokenService TokenService
}

func NewAuthMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate accepts "Authorization: Bearer <token>" or the access_token cookie
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := bearer(header)
		if header != "" && token == "" {
			return iam.ErrInvalidToken().WithDetail("reason", "malformed authorization header")
		}
		if token == "" {
			token = c.Cookies("access_token")
		}
		if token == "" {
			return iam.ErrUnauthorized()
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		ac := claims.AuthContext()
		c.Locals(localsKey, ac)
		c.SetUserContext(kernel.WithAuth(c.UserContext(), ac))
		return c.Next()
	}
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireRole lets the request through when the caller holds one of roles
func (am *TokenMiddleware) RequireRole(roles ...iam.Role) fiber.Handler {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return func(c *fiber.Ctx) error {
		ac, ok := FromFiber(c)
		if !ok {
			return iam.ErrUnauthorized()
		}
		if !ac.HasRole(names...) {
			return iam.ErrAccessDenied().WithDetail("required_roles", names)
		}
		return c.Next()
	}
}

// RequireScope lets the request through when the caller holds any of scopes
func (am *TokenMiddleware) RequireScope(scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := FromFiber(c)
		if !ok {
			return iam.ErrUnauthorized()
		}
		if !ac.HasAnyScope(scopes...) {
			return iam.ErrAccessDenied().WithDetail("required_scopes", scopes)
		}
		return c.Next()
	}
}

// FromFiber returns the caller set by Authenticate
func FromFiber(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	ac, ok := c.Locals(localsKey).(*kernel.AuthContext)
	return ac, ok && ac.IsValid()
}

// MustFromFiber is FromFiber for handlers mounted behind Authenticate
func MustFromFiber(c *fiber.Ctx) (*kernel.AuthContext, error) {
	ac, ok := FromFiber(c)
	if !ok {
		return nil, iam.ErrUnauthorized()
	}
	return ac, nil
}
