package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

// RequireRole enforces that the resolved identity carries at least one of
// the given role tags.  It assumes the Session gate already ran; a missing
// identity reads as forbidden, not as a server fault.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok || !id.Roles.ContainsAny(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
