package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/user"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

// TokenClaims is what an access token says about its holder
type TokenClaims struct {
	UserID    kernel.UserID `json:"user_id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Role      iam.Role      `json:"role"`
	Scopes    []string      `json:"scopes"`
	IssuedAt  time.Time     `json:"iat"`
	ExpiresAt time.Time     `json:"exp"`
}

func (c *TokenClaims) AuthContext() *kernel.AuthContext {
	return &kernel.AuthContext{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   c.Role.String(),
		Scopes: c.Scopes,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        user.UserDTO `json:"user"`
	Scopes      []string     `json:"scopes"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidCredentials    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthorization, http.StatusUnauthorized, "Token validation failed")
)

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrTokenValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenValidationFailed)
}
