package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/config"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/middleware"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/repository"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/token"
)

// fakeUsers backs the liveness re-check during token validation.
type fakeUsers struct{ users map[uint64]*model.User }

func (f *fakeUsers) FindActiveByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateLoginAttempts(context.Context, uint64, int, *time.Time) error { return nil }
func (f *fakeUsers) ResetLoginAttempts(context.Context, uint64) error                  { return nil }

// fakeTokens satisfies the ledger contract; the session gate never touches it.
type fakeTokens struct{}

func (fakeTokens) Store(context.Context, uint64, string, string, time.Time) error { return nil }
func (fakeTokens) Validate(context.Context, string) (*model.RefreshToken, error) {
	return nil, repository.ErrNotFound
}
func (fakeTokens) Revoke(context.Context, uint64, string) error { return nil }

type gateFixture struct {
	issuer *token.Issuer
	users  *fakeUsers
	e      *echo.Echo
}

func newGateFixture(t *testing.T, accessExpiry time.Duration) *gateFixture {
	t.Helper()
	issuer, err := token.NewIssuer(config.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
	})
	require.NoError(t, err)

	users := &fakeUsers{users: map[uint64]*model.User{
		1: {
			ID: 1, Email: "pat@example.com", FirstName: "Pat", LastName: "Kim",
			Roles: model.RoleSet{model.RoleDispatcher}, IsActive: true,
		},
	}}
	svc := auth.NewService(users, fakeTokens{}, issuer, nil, 5, 5*time.Minute)

	e := echo.New()
	protected := e.Group("", middleware.Session(svc))
	protected.GET("/whoami", func(c echo.Context) error {
		id, _ := middleware.CurrentIdentity(c)
		return c.JSON(http.StatusOK, id)
	})
	protected.GET("/dispatch", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, middleware.RequireRole(model.RoleDispatcher, model.RoleAdmin))
	protected.GET("/admin-only", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, middleware.RequireRole(model.RoleSuperAdmin))

	return &gateFixture{issuer: issuer, users: users, e: e}
}

func (f *gateFixture) get(path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *gateFixture) mintAccess(t *testing.T) string {
	t.Helper()
	raw, _, err := f.issuer.IssueAccess(f.users.users[1].Identity())
	require.NoError(t, err)
	return raw
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestSessionResolvesIdentity(t *testing.T) {
	f := newGateFixture(t, time.Minute)

	rec := f.get("/whoami", "Bearer "+f.mintAccess(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var id model.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	assert.Equal(t, uint64(1), id.UserID)
	assert.Equal(t, "pat@example.com", id.Email)
}

func TestSessionMissingHeader(t *testing.T) {
	f := newGateFixture(t, time.Minute)

	for name, header := range map[string]string{
		"absent":       "",
		"wrong scheme": "Basic abc123",
		"empty bearer": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.get("/whoami", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, auth.ErrTokenMissing.Error(), message(t, rec))
		})
	}
}

func TestSessionGarbageToken(t *testing.T) {
	f := newGateFixture(t, time.Minute)

	rec := f.get("/whoami", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrTokenInvalid.Error(), message(t, rec))
}

func TestSessionExpiredToken(t *testing.T) {
	// A negative expiry mints a token that is already dead; the client must
	// be able to tell this apart from an invalid one so it knows to refresh.
	f := newGateFixture(t, -time.Minute)

	rec := f.get("/whoami", "Bearer "+f.mintAccess(t))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrTokenExpired.Error(), message(t, rec))
}

func TestSessionDeactivatedUser(t *testing.T) {
	f := newGateFixture(t, time.Minute)
	bearer := "Bearer " + f.mintAccess(t)

	rec := f.get("/whoami", bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	// Deactivation cuts off the still-valid token immediately.
	f.users.users[1].IsActive = false
	rec = f.get("/whoami", bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrAccountInactive.Error(), message(t, rec))
}

func TestSessionDeletedUser(t *testing.T) {
	f := newGateFixture(t, time.Minute)
	bearer := "Bearer " + f.mintAccess(t)

	f.users.users[1].IsDeleted = true
	rec := f.get("/whoami", bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrAccountDeleted.Error(), message(t, rec))
}

func TestRequireRoleAllowsMatchingTag(t *testing.T) {
	f := newGateFixture(t, time.Minute)

	rec := f.get("/dispatch", "Bearer "+f.mintAccess(t))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsMissingTag(t *testing.T) {
	f := newGateFixture(t, time.Minute)

	rec := f.get("/admin-only", "Bearer "+f.mintAccess(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", message(t, rec))
}

func TestRequireRoleWithoutSessionGate(t *testing.T) {
	// RequireRole outside the session gate must deny, not panic.
	e := echo.New()
	e.GET("/naked", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, middleware.RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/naked", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
