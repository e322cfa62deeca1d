package auth

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

const audience = "nccerp-portal"

// JWTService signs HS256 access tokens
type JWTService struct {
	secretKey      []byte
	accessTokenTTL time.Duration
	issuer         string
	now            func() time.Time
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration, issuer string) *JWTService {
	if accessTokenTTL == 0 {
		accessTokenTTL = 12 * time.Hour
	}
	if issuer == "" {
		issuer = "nccerp"
	}
	return &JWTService{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
		issuer:         issuer,
		now:            time.Now,
	}
}

func NewJWTServiceFromConfig(cfg *config.AuthConfig) *JWTService {
	return NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.Issuer)
}

type jwtClaims struct {
	UserID kernel.UserID `json:"user_id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Role   iam.Role      `json:"role"`
	Scopes []string      `json:"scopes"`
	jwt.RegisteredClaims
}

func (j *JWTService) GenerateAccessToken(c TokenClaims) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.accessTokenTTL)

	scopes := c.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	claims := jwtClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   c.Role,
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   c.UserID.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, ErrTokenGenerationFailed().WithCause(err)
	}
	return signed, exp, nil
}

func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, ErrTokenValidationFailed().WithDetail("error", err.Error())
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenValidationFailed().WithDetail("error", "invalid claims")
	}
	if !claims.Role.IsValid() {
		return nil, ErrTokenValidationFailed().WithDetail("error", "unknown role")
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		Scopes:    claims.Scopes,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
