package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

type OrderController struct {
	Ledger  *services.OrderLedger
	Machine *services.OrderStateMachine
}

func NewOrderController(ledger *services.OrderLedger, machine *services.OrderStateMachine) *OrderController {
	return &OrderController{Ledger: ledger, Machine: machine}
}

func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		Items []services.OrderLine `json:"items"`
	}
	if !bindJSON(c, &req, utils.KindInvalidOrderInput) {
		return
	}

	result, err := oc.Ledger.PlaceOrder(c.Request.Context(), c.Param("session_id"), req.Items, middlewares.GetClaims(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", result)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Ledger.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) SessionOrders(c *gin.Context) {
	orders, err := oc.Ledger.SessionOrders(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

// KitchenOrders -> tickets of the kitchen's branch, ?status= defaults to PLACED
func (oc *OrderController) KitchenOrders(c *gin.Context) {
	var status models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			utils.RespondAppError(c, utils.NewError(utils.KindInvalidInput, "unknown status %q", raw))
			return
		}
		status = parsed
	}

	claims := middlewares.GetClaims(c)
	orders, err := oc.Machine.KitchenOrders(c.Request.Context(), claims.BranchID, status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen orders", orders)
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req, utils.KindInvalidInput) {
		return
	}

	claims := middlewares.GetClaims(c)
	orderID := c.Param("order_id")

	order, err := oc.Ledger.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if order.Session != nil && order.Session.Table.BranchID() != claims.BranchID {
		utils.RespondAppError(c, utils.NewError(utils.KindBranchMismatch, "order belongs to another branch"))
		return
	}

	updated, err := oc.Machine.Advance(c.Request.Context(), orderID, models.OrderStatus(req.Status), claims.Role)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

// CaptainOrders -> orders of open sessions grouped by status, ?status= filters
func (oc *OrderController) CaptainOrders(c *gin.Context) {
	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			utils.RespondAppError(c, utils.NewError(utils.KindInvalidInput, "unknown status %q", raw))
			return
		}
		status = &parsed
	}

	claims := middlewares.GetClaims(c)
	grouped, err := oc.Machine.CaptainOrders(c.Request.Context(), claims.BranchID, status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Captain orders", grouped)
}
