package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopupgh/shopup-api/internal/utils"
)

// JWTMiddleware authenticates sellers via bearer tokens and places the
// resolved seller identity into the request context.
type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "AUTHENTICATION_ERROR", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "AUTHENTICATION_ERROR", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "AUTHENTICATION_ERROR", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("seller_id", claims.SellerID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// SellerID returns the authenticated seller's id from the context, or ""
// when the request is unauthenticated.
func SellerID(c *gin.Context) string {
	return c.GetString("seller_id")
}
