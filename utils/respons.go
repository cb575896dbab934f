package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Code:    string(KindOf(err)),
	})
}

// RespondAppError maps err onto its HTTP status. Errors outside the taxonomy
// are logged and answered with an opaque internal error.
func RespondAppError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		ErrorLogger.WithError(err).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		c.JSON(http.StatusInternalServerError, JSONResponse{
			Status:  false,
			Message: "internal server error",
			Code:    string(KindInternal),
		})
		return
	}
	RespondError(c, StatusCode(appErr.Kind), appErr)
}
