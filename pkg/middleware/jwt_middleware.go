package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autumhire/pkg/utils"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "Role"
	CtxCompanyID = "company_id"
)

func JWTAuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := issuer.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxCompanyID, claims.CompanyID)
		c.Next()
	}
}

// RoleMiddleware lets the request through when the caller holds any of the
// given roles.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
		c.Abort()
	}
}

// OptionalJWTMiddleware identifies the caller when a valid bearer token is
// sent and lets anonymous requests through untouched.
func OptionalJWTMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		if claims, err := issuer.ValidateToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxCompanyID, claims.CompanyID)
		}
		c.Next()
	}
}
