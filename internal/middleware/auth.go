// Package middleware provides HTTP middleware for the auth service.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sriharipamidimarri/s451/internal/models"
	"github.com/sriharipamidimarri/s451/internal/service"
)

// ClaimsKey is the gin context key under which validated session claims are
// stored for downstream handlers.
const ClaimsKey = "session_claims"

// Access guard deny reasons, alongside the token errors from the JWT
// service.
var (
	ErrMissingToken = errors.New("no token provided")
	ErrForbidden    = errors.New("insufficient permissions")
)

// Authorize checks a bearer token against a required-role set. It is a pure
// function of the token and the policy: roles travel inside the token and
// are not re-fetched, so a role change takes effect only when the token is
// reissued. An empty required set admits any authenticated identity.
func Authorize(jwtService service.JWTService, token string, required ...models.Role) (*service.Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if len(required) == 0 {
		return claims, nil
	}
	for _, role := range required {
		if claims.Role == role {
			return claims, nil
		}
	}
	return nil, ErrForbidden
}

// RequireRoles returns middleware that guards a route with Authorize.
// Missing, invalid or expired tokens yield 401; a valid token with an
// insufficient role yields 403.
func RequireRoles(jwtService service.JWTService, required ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Authorize(jwtService, extractToken(c), required...)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrForbidden) {
				status = http.StatusForbidden
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the session claims stashed by RequireRoles.
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
