package middlewares

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/model"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*model.User

func (r stubResolver) ResolveIdentity(ctx context.Context, token string) (*model.User, error) {
	if user, ok := r[token]; ok {
		return user, nil
	}
	return nil, auth.ErrInvalidCredentials
}

func testErrorHandler(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ctx.SendStatus(fiber.StatusUnauthorized)
	case errors.Is(err, auth.ErrForbidden):
		return ctx.SendStatus(fiber.StatusForbidden)
	}
	return ctx.SendStatus(fiber.StatusInternalServerError)
}

func newTestApp() *fiber.App {
	resolver := stubResolver{
		"admin-token": {ID: 1, Email: "a@x.com", Role: model.RoleAdmin},
		"user-token":  {ID: 2, Email: "b@x.com", Role: model.RoleUser},
	}
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Use(Metrics())
	app.Get("/me", Authenticate(resolver), func(ctx *fiber.Ctx) error {
		return ctx.SendString(CurrentUser(ctx).Email + " " + CurrentToken(ctx))
	})
	app.Get("/admin", Authenticate(resolver), RequireRoles(auth.AdminOnly), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/unguarded", RequireRoles(auth.AllRoles), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		token, ok := BearerToken(ctx)
		if !ok {
			return ctx.SendStatus(fiber.StatusNoContent)
		}
		return ctx.SendString(token)
	})

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		resp := request(t, app, "/", tt.header)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, resp.StatusCode == fiber.StatusOK, tt.header)
		assert.Equal(t, tt.token, string(body), tt.header)
	}
}

func TestAuthenticate(t *testing.T) {
	app := newTestApp()

	resp := request(t, app, "/me", "Bearer admin-token")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", "").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", "Bearer nope").StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := newTestApp()

	assert.Equal(t, fiber.StatusNoContent, request(t, app, "/admin", "Bearer admin-token").StatusCode)
	assert.Equal(t, fiber.StatusForbidden, request(t, app, "/admin", "Bearer user-token").StatusCode)
	// no identity was resolved
	assert.Equal(t, fiber.StatusForbidden, request(t, app, "/unguarded", "").StatusCode)
}

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, httpRequestsTotal.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsRecordsFinalStatus(t *testing.T) {
	app := newTestApp()
	before := counterValue(t, http.MethodGet, "/admin", "403")

	request(t, app, "/admin", "Bearer user-token")

	after := counterValue(t, http.MethodGet, "/admin", "403")
	assert.Equal(t, before+1, after)
}
