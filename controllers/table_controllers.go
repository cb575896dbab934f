package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

type TableController struct {
	Sessions *services.SessionManager
	Catalog  *services.Catalog
}

func NewTableController(sessions *services.SessionManager, catalog *services.Catalog) *TableController {
	return &TableController{Sessions: sessions, Catalog: catalog}
}

// Scan -> QR scan of a table: joins the open session or starts one
func (tc *TableController) Scan(c *gin.Context) {
	result, err := tc.Sessions.StartOrReuse(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if result.IsNew {
		utils.RespondJSON(c, http.StatusCreated, "Session started", result)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Joined existing session", result)
}

func (tc *TableController) GetTables(c *gin.Context) {
	claims := middlewares.GetClaims(c)
	tables, err := tc.Catalog.Tables(c.Request.Context(), claims.BranchID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	var patch repository.TablePatch
	if !bindJSON(c, &patch, utils.KindInvalidInput) {
		return
	}

	claims := middlewares.GetClaims(c)
	table, err := tc.Catalog.UpdateTable(c.Request.Context(), claims.BranchID, c.Param("table_id"), patch)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("table_id", table.ID).Info("table updated")
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}
