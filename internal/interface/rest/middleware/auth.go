package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/aliyabuz25/forsaj-cms/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// RequireAdmin rejects requests that do not carry the admin bearer token.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireAdmin")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")
		split := strings.Split(authHeader, " ")
		if len(split) != 2 || split[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
		}

		if !m.auth.VerifyToken(split[1]) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
