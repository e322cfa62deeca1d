// Package authtest builds fiber apps with real token middleware for handler tests.
package authtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/iam/scopes"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const secret = "handler-test-secret-0123"

// Caller is who a request is sent as. The zero Caller sends no token.
type Caller struct {
	ID    kernel.UserID
	Email string
	Role  iam.Role
}

func As(id kernel.UserID, role iam.Role) Caller {
	return Caller{ID: id, Email: string(id) + "@ncc.test", Role: role}
}

type Harness struct {
	t   *testing.T
	App *fiber.App
	JWT *auth.JWTService
}

// New mounts routes on an app whose error handler renders errx responses
func New(t *testing.T, routes func(fiber.Router, *auth.TokenMiddleware)) *Harness {
	t.Helper()
	jwt := auth.NewJWTService(secret, time.Hour, "nccerp")
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}
		e := errx.From(err)
		return c.Status(e.HTTPStatus).JSON(e.ToResponse("", false))
	}})
	routes(app, auth.NewAuthMiddleware(jwt))
	return &Harness{t: t, App: app, JWT: jwt}
}

func (h *Harness) Token(c Caller) string {
	h.t.Helper()
	tok, _, err := h.JWT.GenerateAccessToken(auth.TokenClaims{
		UserID: c.ID,
		Email:  c.Email,
		Role:   c.Role,
		Scopes: scopes.ForRole(c.Role),
	})
	require.NoError(h.t, err)
	return tok
}

// Send issues req as c
func (h *Harness) Send(c Caller, req *http.Request) *http.Response {
	h.t.Helper()
	if c.Role != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token(c))
	}
	resp, err := h.App.Test(req, -1)
	require.NoError(h.t, err)
	return resp
}

// Do sends body, when not nil, as JSON
func (h *Harness) Do(c Caller, method, path string, body any) *http.Response {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.Send(c, req)
}

// Decode reads a JSON response body into v
func Decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// Code returns the errx code of an error response
func Code(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	Decode(t, resp, &body)
	return body.Code
}
