package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/controllers"
	"github.com/yeremiapane/dinein/kds"
	"github.com/yeremiapane/dinein/middlewares"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Tokens   middlewares.TokenParser
	Guard    *services.SessionGuard
	Sessions *services.SessionManager
	Otp      *services.OtpAuthenticator
	Ledger   *services.OrderLedger
	Machine  *services.OrderStateMachine
	Catalog  *services.Catalog
	Hub      *kds.Hub

	CORSOrigin     string
	RateLimitRPS   float64
	OtpVerifyRPS   float64
	OtpVerifyBurst int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if d.RateLimitRPS > 0 {
		burst := int(d.RateLimitRPS) * 2
		r.Use(middlewares.NewRateLimiter(d.RateLimitRPS, burst, middlewares.ClientIPKey).RateLimit())
	}

	tableCtrl := controllers.NewTableController(d.Sessions, d.Catalog)
	sessionCtrl := controllers.NewSessionController(d.Guard, d.Sessions, d.Otp)
	customerCtrl := controllers.NewCustomerController(d.Otp)
	orderCtrl := controllers.NewOrderController(d.Ledger, d.Machine)
	menuCtrl := controllers.NewMenuController(d.Ledger, d.Catalog)
	kdsCtrl := controllers.NewKDSController(d.Hub, d.CORSOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      CUSTOMER (QR flow)
	// ----------------------------------------------------------------
	r.POST("/tables/:table_id/scan", tableCtrl.Scan)
	r.GET("/orders/:order_id", orderCtrl.GetOrder)

	session := r.Group("/sessions/:session_id")
	{
		session.GET("", sessionCtrl.GetSession)
		session.POST("/customers", customerCtrl.Initiate)
		verifyLimiter := middlewares.NewRateLimiter(d.OtpVerifyRPS, d.OtpVerifyBurst, middlewares.SessionClientKey)
		session.POST("/otp/verify", verifyLimiter.RateLimit(), customerCtrl.VerifyOtp)
		session.GET("/menu", menuCtrl.SessionMenu)
		session.GET("/orders", orderCtrl.SessionOrders)
		session.POST("/orders", middlewares.OptionalAuth(d.Tokens), orderCtrl.PlaceOrder)
	}

	// ----------------------------------------------------------------
	//                      STAFF
	// ----------------------------------------------------------------
	staff := r.Group("/staff", middlewares.AuthMiddleware(d.Tokens),
		middlewares.RequireRole(utils.RoleCaptain, utils.RoleStaff, utils.RoleAdmin))
	{
		staff.POST("/sessions/:session_id/otp", sessionCtrl.GenerateOtp)
		staff.POST("/sessions/:session_id/close", sessionCtrl.Close)
		staff.GET("/sessions", middlewares.RequireBranch(), sessionCtrl.ActiveSessions)
	}

	kitchen := r.Group("/kitchen", middlewares.AuthMiddleware(d.Tokens),
		middlewares.RequireRole(utils.RoleKitchen), middlewares.RequireBranch())
	{
		kitchen.GET("/orders", orderCtrl.KitchenOrders)
		kitchen.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
	}

	captain := r.Group("/captain", middlewares.AuthMiddleware(d.Tokens),
		middlewares.RequireRole(utils.RoleCaptain, utils.RoleAdmin), middlewares.RequireBranch())
	{
		captain.GET("/orders", orderCtrl.CaptainOrders)
	}

	admin := r.Group("/admin", middlewares.AuthMiddleware(d.Tokens),
		middlewares.RequireRole(utils.RoleAdmin), middlewares.RequireBranch())
	{
		admin.GET("/tables", tableCtrl.GetTables)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		admin.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
	}

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(d.Tokens), kdsCtrl.Subscribe)

	return r
}
