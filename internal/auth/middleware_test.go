package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// stubUserRepo is an in-memory credential store for middleware tests.
type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func buildMiddlewareApp(tm *TokenManager, repo *stubUserRepo) *fiber.App {
	// The production app translates DomainError via the error-handling
	// middleware in internal/api/http, which this package cannot import
	// without a cycle; mirror the status mapping here.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})
	mw := NewAuthMiddleware(tm, repo)
	app.Get("/whoami", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusInternalServerError, "principal missing")
		}
		return c.JSON(fiber.Map{"id": principal.ID, "role": principal.Role})
	})
	return app
}

func doWhoami(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareMissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret)
	app := buildMiddlewareApp(tm, &stubUserRepo{users: map[string]*domain.User{}})

	resp := doWhoami(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret)
	app := buildMiddlewareApp(tm, &stubUserRepo{users: map[string]*domain.User{}})

	for _, header := range []string{"Token abc", "Bearer", "just-a-token"} {
		resp := doWhoami(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	tm := NewTokenManager(testSecret)
	app := buildMiddlewareApp(tm, &stubUserRepo{users: map[string]*domain.User{}})

	foreign := NewTokenManager("other-secret")
	token, _, err := foreign.Issue("user-1", domain.RoleCustomer)
	require.NoError(t, err)

	resp := doWhoami(t, app, "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	issuer := NewTokenManager(testSecret)
	issuer.now = func() time.Time { return time.Now().Add(-TokenTTL - time.Minute) }
	token, _, err := issuer.Issue("user-1", domain.RoleCustomer)
	require.NoError(t, err)

	tm := NewTokenManager(testSecret)
	app := buildMiddlewareApp(tm, &stubUserRepo{users: map[string]*domain.User{}})

	resp := doWhoami(t, app, "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareUnknownSubject(t *testing.T) {
	tm := NewTokenManager(testSecret)
	app := buildMiddlewareApp(tm, &stubUserRepo{users: map[string]*domain.User{}})

	token, _, err := tm.Issue("ghost", domain.RoleAdmin)
	require.NoError(t, err)

	resp := doWhoami(t, app, "Bearer "+token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRoleComesFromStore(t *testing.T) {
	tm := NewTokenManager(testSecret)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Username: "alice", Role: domain.RoleCustomer},
	}}
	app := buildMiddlewareApp(tm, repo)

	// Token claims ADMIN; the store says CUSTOMER. The store wins.
	token, _, err := tm.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	resp := doWhoami(t, app, "Bearer "+token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID   string      `json:"id"`
		Role domain.Role `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body.ID)
	assert.Equal(t, domain.RoleCustomer, body.Role)
}
