package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/utils"
)

// RequireRole lets the request through only when its claims carry one of
// roles. It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			utils.RespondAppError(c, utils.NewError(utils.KindUnauthorized, "unauthorized"))
			c.Abort()
			return
		}
		if !claims.HasRole(roles...) {
			utils.RespondAppError(c, utils.NewError(utils.KindInsufficientRole, "%s access required", roles[0]))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireBranch rejects staff tokens that are not bound to a branch.
func RequireBranch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := GetClaims(c); claims == nil || claims.BranchID == "" {
			utils.RespondAppError(c, utils.NewError(utils.KindInsufficientRole, "branch-scoped staff token required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
