package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/utils"
)

// bindJSON decodes the body into dst, answering with kind on failure.
func bindJSON(c *gin.Context, dst interface{}, kind utils.ErrorKind) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondAppError(c, utils.NewError(kind, "invalid request body: %v", err))
		return false
	}
	return true
}
