package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/utils"
)

const claimsKey = "claims"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondAppError(c, utils.NewError(utils.KindUnauthorized, "authorization header missing"))
			c.Abort()
			return
		}

		claims, err := parser.Parse(token)
		if err != nil {
			utils.RespondAppError(c, utils.NewError(utils.KindUnauthorized, "invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid bearer token is present and lets
// the request through either way.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := parser.Parse(token); err == nil {
				c.Set(claimsKey, claims)
			} else {
				utils.InfoLogger.WithField("path", c.Request.URL.Path).Debug("ignoring invalid bearer token")
			}
		}
		c.Next()
	}
}

// GetClaims returns the verified claims of the request, or nil.
func GetClaims(c *gin.Context) *utils.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*utils.Claims)
	return claims
}
