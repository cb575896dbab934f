package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/utils"
)

// WebSocketAuthMiddleware reads the token from ?token= since browsers cannot
// set headers on a websocket handshake.
func WebSocketAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondAppError(c, utils.NewError(utils.KindUnauthorized, "token query parameter missing"))
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
