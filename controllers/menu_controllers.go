package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

type MenuController struct {
	Ledger  *services.OrderLedger
	Catalog *services.Catalog
}

func NewMenuController(ledger *services.OrderLedger, catalog *services.Catalog) *MenuController {
	return &MenuController{Ledger: ledger, Catalog: catalog}
}

func (mc *MenuController) SessionMenu(c *gin.Context) {
	menu, err := mc.Ledger.SessionMenu(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var patch repository.MenuItemPatch
	if !bindJSON(c, &patch, utils.KindInvalidInput) {
		return
	}

	claims := middlewares.GetClaims(c)
	item, err := mc.Catalog.UpdateMenuItem(c.Request.Context(), claims.BranchID, c.Param("item_id"), patch)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("item_id", item.ID).Info("menu item updated")
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}
