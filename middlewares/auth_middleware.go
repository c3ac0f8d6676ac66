package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextToken    = "token"
	ContextClaims   = "claims"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			c.Abort()
			return
		}

		if !authenticate(c, strings.TrimSpace(tokenString)) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.InfoLogger.Debugf("Rejected token from %s: %v", c.ClientIP(), err)
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, tokenString)
	c.Set(ContextClaims, claims)
	return true
}
