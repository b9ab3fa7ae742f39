package middleware

import (
	"context"
	"net/http"
	"strings"

	"dinocars/internal/apierror"
	"dinocars/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
)

// Unauthorized aborts with 401 and the Bearer challenge header.
func Unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msg))
}

// UsuarioChecker reports whether a token subject is still a stored user.
type UsuarioChecker interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// JWTAuth validates the Bearer token on every protected route and rejects
// tokens whose user has been deleted. The role still comes from the claims.
func JWTAuth(issuer *auth.TokenIssuer, usuarios UsuarioChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			Unauthorized(c, "Autenticacion requerida")
			return
		}

		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			Unauthorized(c, "No se pudieron validar las credenciales")
			return
		}

		existe, err := usuarios.Exists(c.Request.Context(), claims.Username())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !existe {
			Unauthorized(c, "No se pudieron validar las credenciales")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role does not satisfy permitido.
func RequireRole(permitido func(role string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*auth.Claims)
		if !ok || !permitido(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(auth.IsAdmin)
}

func RequireAdminOrManager() gin.HandlerFunc {
	return RequireRole(auth.IsAdminOrManager)
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.MustGet(ClaimsKey).(*auth.Claims)
	return claims
}
