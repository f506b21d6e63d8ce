package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/models"
	"styledecor-server/services"
)

const (
	ctxEmailKey = "email"
	ctxUserKey  = "user"
)

// Auth validates the bearer credential and stores the verified email as the
// principal. The principal's user record is attached when one exists; role
// checks over it happen in the guards, not here.
func Auth(tokens *services.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized Access"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":   "invalid_token_format",
				"detail": "token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":   "invalid_token",
				"detail": errs.DetailOf(err),
			})
			c.Abort()
			return
		}

		c.Set(ctxEmailKey, claims.Email)

		var user models.User
		if err := db.Where("email = ?", claims.Email).First(&user).Error; err == nil {
			c.Set(ctxUserKey, &user)
		}

		c.Next()
	}
}

// CallerEmail returns the verified principal email set by Auth.
func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxEmailKey)
}

// CurrentUser returns the principal's user record, or nil when the verified
// email has no record.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
