package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

type CustomerController struct {
	Otp *services.OtpAuthenticator
}

func NewCustomerController(otp *services.OtpAuthenticator) *CustomerController {
	return &CustomerController{Otp: otp}
}

// Initiate -> diner enters phone (and optionally name) before getting a code
func (cc *CustomerController) Initiate(c *gin.Context) {
	var req struct {
		Phone string  `json:"phone" binding:"required"`
		Name  *string `json:"name"`
	}
	if !bindJSON(c, &req, utils.KindInvalidInput) {
		return
	}

	customer, err := cc.Otp.InitiateCustomer(c.Request.Context(), c.Param("session_id"), req.Phone, req.Name)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Customer registered, ask staff for the code", customer)
}

func (cc *CustomerController) VerifyOtp(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if !bindJSON(c, &req, utils.KindInvalidInput) {
		return
	}

	result, err := cc.Otp.Verify(c.Request.Context(), c.Param("session_id"), req.Phone, req.Code)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "OTP verified", result)
}
