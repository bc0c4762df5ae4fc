package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/insighthq/insight-api/internal/core/domain"
)

// principalKey is the echo context key the auth middleware stores the
// Principal under.
const principalKey = "principal"

// UserChecker is the single persistence question the auth middleware asks:
// does the account behind the token still exist. Role and email stay as
// claimed in the token; they are not refreshed from the store.
type UserChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Auth validates the bearer token and injects the Principal into context.
// Each failure mode returns 401 with its own message: missing header,
// malformed header, bad signature, expired token, deleted user.
func Auth(jwtSecret string, users UserChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrTokenMissing
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return domain.ErrTokenMalformed
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return domain.ErrTokenExpired
				}
				return domain.ErrTokenInvalid
			}
			if !tkn.Valid {
				return domain.ErrTokenInvalid
			}

			id, _ := claims["id"].(string)
			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)
			if id == "" {
				return domain.ErrTokenInvalid
			}

			// The token is stateless; the one thing re-resolved per request
			// is that the account has not been deleted since it was issued.
			exists, err := users.ExistsByID(c.Request().Context(), id)
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrTokenUserGone
			}

			c.Set(principalKey, domain.Principal{ID: id, Email: email, Role: role})

			return next(c)
		}
	}
}

// PrincipalFrom extracts the Principal set by Auth. ok is false when the
// middleware has not run on this route.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
