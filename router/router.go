package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/config"
	"github.com/yeremiapane/ekantin/controllers"
	"github.com/yeremiapane/ekantin/kds"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/utils"
)

// Dependencies berisi semua komponen yang dibutuhkan router.
type Dependencies struct {
	Config   *config.Config
	Gateway  *sheets.Client
	Auth     *services.AuthService
	Kantins  *services.KantinService
	Menus    *services.MenuService
	Orders   *services.OrderService
	Uploader services.FileUploader
	Hub      *kds.Hub

	// RateLimiter nil mematikan pembatasan global.
	RateLimiter  *middlewares.RateLimiter
	LoginLimiter *middlewares.RateLimiter
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middlewares.NewStrictRateLimiter()
	}

	r := gin.New()
	r.Use(middlewares.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(middlewares.SecurityOptions{
		ContentSecurityPolicy: cfg.ContentSecurityPolicy,
		HSTSMaxAge:            cfg.HSTSMaxAge,
	}))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.RateLimit())
	}

	// Inisialisasi controller
	scriptCtrl := controllers.NewGoogleScriptController(deps.Gateway)
	authCtrl := controllers.NewAuthController(deps.Auth, cfg.GoogleClientID, cfg.OAuthRedirectURL)
	kantinCtrl := controllers.NewKantinController(deps.Kantins)
	menuCtrl := controllers.NewMenuController(deps.Menus)
	orderCtrl := controllers.NewOrderController(deps.Orders)
	adminCtrl := controllers.NewAdminController(deps.Kantins)
	uploadCtrl := controllers.NewUploadController(deps.Uploader)
	kdsCtrl := controllers.NewKDSController(deps.Hub, cfg.CORSOrigins)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")

	api.GET("/google-script", scriptCtrl.Proxy)
	// tulis ke AkunKantin hanya untuk super admin
	api.POST("/google-script",
		middlewares.ProtectSheetWrites(deps.Auth, models.SheetKantin, utils.RoleSuperAdmin),
		scriptCtrl.Proxy,
	)

	api.GET("/kantin", kantinCtrl.ListKantin)
	api.GET("/kantin/:id", kantinCtrl.GetKantin)
	api.GET("/kantin/:id/menus", menuCtrl.GetKantinMenus)
	api.POST("/kantin/:id/checkout", orderCtrl.Checkout)
	api.GET("/kantin/:id/orders/:code", orderCtrl.TrackOrder)

	api.POST("/upload", uploadCtrl.Upload)

	authGroup := api.Group("/auth")
	authGroup.GET("/google/config", authCtrl.GoogleConfig)

	// Rate limiter khusus login
	login := authGroup.Group("/")
	login.Use(loginLimiter.RateLimit())
	{
		login.POST("/kantin/login", authCtrl.KantinLogin)
		login.POST("/superadmin/login", authCtrl.SuperAdminLogin)
	}

	// ----------------------------------------------------------------
	//                      KANTIN ROUTES
	// ----------------------------------------------------------------
	requireKantin := []gin.HandlerFunc{
		middlewares.AuthMiddleware(deps.Auth),
		middlewares.RequireRole(utils.RoleKantin),
	}

	kantinAuth := authGroup.Group("/", requireKantin...)
	kantinAuth.GET("/me", authCtrl.Me)
	kantinAuth.POST("/kantin/update-profile", kantinCtrl.UpdateProfile)
	kantinAuth.POST("/kantin/update-status", kantinCtrl.UpdateStatus)
	kantinAuth.POST("/kantin/update-transaction-status", orderCtrl.UpdateTransactionStatus)

	me := api.Group("/kantin/me", requireKantin...)
	me.GET("/menus", menuCtrl.GetMyMenus)
	me.POST("/menus", menuCtrl.CreateMenu)
	me.PUT("/menus/:menuId", menuCtrl.UpdateMenu)
	me.DELETE("/menus/:menuId", menuCtrl.DeleteMenu)
	me.GET("/orders", orderCtrl.GetMyOrders)

	// ----------------------------------------------------------------
	//                      SUPER ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/superadmin",
		middlewares.AuthMiddleware(deps.Auth),
		middlewares.RequireRole(utils.RoleSuperAdmin),
	)
	admin.GET("/kantin", adminCtrl.ListKantin)
	admin.POST("/kantin", adminCtrl.CreateKantin)
	admin.PUT("/kantin/:id", adminCtrl.UpdateKantin)
	admin.DELETE("/kantin/:id", adminCtrl.DeleteKantin)

	// WebSocket dashboard pesanan kantin
	ws := r.Group("/ws", middlewares.WebSocketAuthMiddleware(deps.Auth), middlewares.RequireRole(utils.RoleKantin))
	ws.GET("/kantin", kdsCtrl.Connect)

	return r
}
