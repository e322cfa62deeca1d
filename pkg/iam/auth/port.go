package auth

import (
	"context"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

// TokenService issues and checks access tokens
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, time.Time, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// AuditService records security-relevant events
type AuditService interface {
	LogLoginAttempt(ctx context.Context, email string, userID kernel.UserID, success bool, ip string, userAgent string)
	LogAccountCreated(ctx context.Context, userID kernel.UserID, role iam.Role, actor kernel.UserID)
	LogEvent(ctx context.Context, event string, fields map[string]any)
}
