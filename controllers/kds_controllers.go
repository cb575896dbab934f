package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/kds"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

func NewKDSController(hub *kds.Hub, allowedOrigin string) *KDSController {
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin == "*" || r.Header.Get("Origin") == "" || r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Subscribe -> websocket for kitchen and captain displays of one branch
func (kc *KDSController) Subscribe(c *gin.Context) {
	claims := middlewares.GetClaims(c)
	if !claims.HasRole(utils.RoleKitchen, utils.RoleCaptain) {
		utils.RespondAppError(c, utils.NewError(utils.KindInsufficientRole, "kitchen or captain access required"))
		return
	}
	if claims.BranchID == "" {
		utils.RespondAppError(c, utils.NewError(utils.KindInsufficientRole, "branch-scoped staff token required"))
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kc.Hub.RegisterClient(ws, claims.Role, claims.BranchID)
	utils.InfoLogger.WithFields(logrus.Fields{
		"role":      claims.Role,
		"branch_id": claims.BranchID,
	}).Info("display connected")

	// the read loop only detects disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.UnregisterClient(ws)
}
