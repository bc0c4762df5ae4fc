package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/insighthq/insight-api/internal/api/middleware"
	"github.com/insighthq/insight-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails before any service call when it is absent. Presence proves the
// middleware ran on this route.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.ID == "" {
		return domain.Principal{}, domain.ErrTokenMissing
	}
	return p, nil
}
