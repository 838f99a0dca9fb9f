// Package middleware provides the request gates in front of the handlers:
// the session gate that resolves bearer tokens to live identities, the
// role gate, and the distributed rate limiter on the auth endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

// IdentityKey is the echo context key holding the resolved model.Identity.
const IdentityKey = "identity"

// Session returns the protected-route gate.  It extracts the bearer token,
// verifies it, and re-checks the account against the credential store so
// that an access token for a since-deactivated user stops working before
// its natural expiry.  The 401 body distinguishes expired from invalid
// from inactive so the client knows whether a refresh is worth trying.
func Session(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return fail(c, auth.ErrTokenMissing)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if raw == "" {
				return fail(c, auth.ErrTokenMissing)
			}

			id, err := svc.ValidateAccess(c.Request().Context(), raw)
			if err != nil {
				return fail(c, err)
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity the session gate stored, or false
// when the route is not behind the gate.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(IdentityKey).(model.Identity)
	return id, ok
}

// fail writes the uniform unauthorized body.  Storage faults stay generic:
// the caller learns nothing beyond "try later".
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenMissing),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrAccountDeleted):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": err.Error()})
	default:
		c.Logger().Errorf("session gate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "authentication error"})
	}
}
