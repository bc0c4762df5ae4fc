package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/insighthq/insight-api/internal/core/domain"
)

// AdminOnly allows only principals carrying the admin role. Runs after Auth;
// a missing principal means the pipeline was misordered and yields 401, not
// 403.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if !p.IsAdmin() {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// SelfOrAdmin allows admins, and non-admins only when the path parameter
// names their own account.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if !p.IsAdmin() && c.Param(param) != p.ID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
