package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/magicscuts/errors"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	UserIDKey = "user_id"
	ClaimsKey = "claims"
)

// EchoAuth returns an Echo middleware that validates the bearer JWT and sets
// "user_id" (uuid.UUID) and "claims" (*jwt.Claims) into Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return errors.ErrTokenExpired()
				}
				return errors.ErrInvalidToken()
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, claims.UserID)

			return next(c)
		}
	}
}

// extractToken reads the Authorization header, falling back to the
// access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
