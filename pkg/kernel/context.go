package kernel

import "context"

// AuthContext is the authenticated caller attached to every protected request
type AuthContext struct {
	UserID UserID   `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}

func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty() && ac.Role != ""
}

// HasScope matches exact scopes, "*" and "resource:*" wildcards
func (ac *AuthContext) HasScope(scope string) bool {
	for _, s := range ac.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-2]
			if len(scope) > len(prefix) && scope[:len(prefix)] == prefix && scope[len(prefix)] == ':' {
				return true
			}
		}
	}
	return false
}

func (ac *AuthContext) HasAnyScope(scopes ...string) bool {
	for _, scope := range scopes {
		if ac.HasScope(scope) {
			return true
		}
	}
	return false
}

func (ac *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		if !ac.HasScope(scope) {
			return false
		}
	}
	return true
}

// HasRole reports whether the caller holds one of roles
func (ac *AuthContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if ac.Role == r {
			return true
		}
	}
	return false
}

type ContextKey string

const (
	AuthContextKey ContextKey = "auth_context"
	RequestIDKey   ContextKey = "request_id"
)

// WithAuth stores the caller in ctx
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, AuthContextKey, ac)
}

// AuthFrom returns the caller stored in ctx, if any
func AuthFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(AuthContextKey).(*AuthContext)
	return ac, ok && ac != nil
}
