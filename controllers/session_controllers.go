package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

type SessionController struct {
	Guard    *services.SessionGuard
	Sessions *services.SessionManager
	Otp      *services.OtpAuthenticator
}

func NewSessionController(guard *services.SessionGuard, sessions *services.SessionManager, otp *services.OtpAuthenticator) *SessionController {
	return &SessionController{Guard: guard, Sessions: sessions, Otp: otp}
}

func (sc *SessionController) GetSession(c *gin.Context) {
	session, err := sc.Guard.ValidateOpen(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session is open", gin.H{
		"sessionId": session.ID,
		"status":    session.Status,
		"startedAt": session.StartedAt,
		"table":     session.Table.Label(),
	})
}

// GenerateOtp -> staff issue a code for a diner's phone
func (sc *SessionController) GenerateOtp(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if !bindJSON(c, &req, utils.KindInvalidInput) {
		return
	}

	result, err := sc.Otp.Generate(c.Request.Context(), c.Param("session_id"), req.Phone, middlewares.GetClaims(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "OTP issued", result)
}

func (sc *SessionController) Close(c *gin.Context) {
	result, err := sc.Sessions.Close(c.Request.Context(), c.Param("session_id"), middlewares.GetClaims(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session closed", result)
}

func (sc *SessionController) ActiveSessions(c *gin.Context) {
	claims := middlewares.GetClaims(c)
	sessions, err := sc.Sessions.ActiveSessions(c.Request.Context(), claims.BranchID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active sessions", sessions)
}
