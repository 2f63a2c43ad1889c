package middleware

import (
	"net/http"
	"strings"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/auth"
	"github.com/askbox/askbox/internal/models"
	"github.com/askbox/askbox/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the acting user from the session cookie (or a Bearer
// header) and aborts with 401 when there is none.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := resolveUser(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// AuthOptional attaches the acting user when a valid token is present and
// lets anonymous visitors through. Handlers decide what visitors may see.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, ok := resolveUser(ctx); ok {
			ctx.Set(types.ContextUserKey, user)
		}
		ctx.Next()
	}
}

func resolveUser(ctx *gin.Context) (models.User, bool) {
	tokenString := extractToken(ctx)

	if tokenString == "" {
		return models.User{}, false
	}

	userID, err := auth.VerifyJWT(tokenString)

	if err != nil {
		return models.User{}, false
	}

	var user models.User

	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, false
	}

	return user, true
}

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(types.SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}
