package auth_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/domain"
	"github.com/spec-kit/risk-catalog/internal/repository"
	"github.com/spec-kit/risk-catalog/internal/store"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

type middlewareFixture struct {
	app    *fiber.App
	tokens *auth.TokenManager
	users  repository.UserRepository
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	users := repository.NewUserRepository(store.NewRedisStore(client))
	tokens := auth.NewTokenManager("test-secret", 60)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		},
	})

	mw := auth.NewAuthMiddleware(tokens, users)
	ok := func(c *fiber.Ctx) error {
		principal, attached := auth.PrincipalFromContext(c)
		if !attached {
			return apperrors.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{"id": principal.ID})
	}
	app.Get("/things/:user_id", mw.Handle, ok)
	app.Post("/things", mw.Handle, ok)
	app.Get("/me", mw.Handle, ok)

	return &middlewareFixture{app: app, tokens: tokens, users: users}
}

func (f *middlewareFixture) seed(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	principal := &domain.Principal{
		ID:           id,
		Email:        id,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.users.Create(context.Background(), principal))

	token, _, err := f.tokens.Issue(principal)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body []byte) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareMissingHeader(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := doRequest(t, f.app, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareBadToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := doRequest(t, f.app, http.MethodGet, "/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareUnknownPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t)
	ghost := &domain.Principal{ID: "ghost@x.com", Email: "ghost@x.com", Role: domain.RoleUser}
	token, _, err := f.tokens.Issue(ghost)
	require.NoError(t, err)

	resp := doRequest(t, f.app, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.seed(t, "alice@x.com", domain.RoleUser)

	resp := doRequest(t, f.app, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareOwnershipMismatch(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.seed(t, "alice@x.com", domain.RoleUser)

	resp := doRequest(t, f.app, http.MethodGet, "/things/bob@x.com", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, f.app, http.MethodGet, "/things/alice@x.com", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareOwnershipFromBody(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.seed(t, "alice@x.com", domain.RoleUser)

	resp := doRequest(t, f.app, http.MethodPost, "/things", token, []byte(`{"user_id":"bob@x.com"}`))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, f.app, http.MethodPost, "/things", token, []byte(`{"user_id":"alice@x.com"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareAdminOwnershipOverride(t *testing.T) {
	f := newMiddlewareFixture(t)
	f.seed(t, "alice@x.com", domain.RoleUser)
	adminToken := f.seed(t, "root@x.com", domain.RoleAdmin)

	resp := doRequest(t, f.app, http.MethodGet, "/things/alice@x.com", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, f.app, http.MethodPost, "/things", adminToken, []byte(`{"user_id":"alice@x.com"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
