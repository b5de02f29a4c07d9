package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/docs"
	"github.com/mehrbod2002/fxmobile/internal/config"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/middleware"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Services struct {
	Users  service.UserService
	OTP    service.OTPService
	MT5    service.MT5Service
	Wallet service.WalletService
	Bots   service.BotService
	Logs   service.LogService
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, svc Services, wsHandler *ws.WebSocketHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	authHandler := NewAuthHandler(svc.Users, svc.OTP, svc.Logs, cfg.JWTSecret)
	profileHandler := NewProfileHandler(svc.Users, svc.Logs)
	mt5Handler := NewMT5Handler(svc.MT5)
	walletHandler := NewWalletHandler(svc.Wallet)
	botHandler := NewBotHandler(svc.Bots)
	adminHandler := NewAdminHandler(cfg.AdminUser, cfg.AdminPass, cfg.JWTSecret, svc.Users, svc.Wallet, svc.Bots, svc.Logs)

	exists := func(id string) bool {
		user, err := svc.Users.GetUser(id)
		return err == nil && user != nil
	}
	userAuth := middleware.UserAuthMiddleware(cfg.JWTSecret, exists)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.json")))
	r.GET("/docs/swagger.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", docs.SwaggerJSON)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/user/events", wsHandler.HandleConnection)

	auth := r.Group("/user/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/send/otp", authHandler.SendOTP)
		auth.PATCH("/verify/otp", authHandler.VerifyOTP)
		auth.PUT("/reset/password",
			middleware.UserAuthMiddleware(cfg.JWTSecret, exists, middleware.ScopeReset, middleware.ScopeUser),
			authHandler.ResetPassword)
	}

	user := r.Group("/user").Use(userAuth)
	{
		user.GET("/profile", profileHandler.GetProfile)
		user.PUT("/profile/update", profileHandler.UpdateProfile)
		user.POST("/compliance/upload/doc", profileHandler.UploadDocuments)

		user.GET("/mt5/group/list", mt5Handler.ListGroups)
		user.GET("/mt5/account/list", mt5Handler.ListAccounts)
		user.POST("/mt5/create/account", mt5Handler.CreateAccount)

		user.GET("/wallet/balance", walletHandler.Balance)
		user.GET("/wallet/transactions", walletHandler.Transactions)
		user.POST("/wallet/deposit", walletHandler.Deposit)
		user.POST("/wallet/withdraw", walletHandler.Withdraw)
		user.POST("/wallet/transfer", walletHandler.Transfer)

		user.GET("/bot/plans", botHandler.Plans)
		user.POST("/bot/activate", botHandler.Activate)
		user.POST("/bot/switch", botHandler.Switch)
		user.POST("/bot/stop", botHandler.Stop)
	}

	r.POST("/admin/login", adminHandler.AdminLogin)
	admin := r.Group("/admin").Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
	{
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.GET("/transactions", adminHandler.GetAllTransactions)
		admin.PUT("/transactions/:id", adminHandler.ReviewTransaction)
		admin.GET("/bot/requests", adminHandler.GetPendingBotRequests)
		admin.PUT("/bot/requests/:id", adminHandler.ReviewBotRequest)
		admin.GET("/logs", adminHandler.GetAllLogs)
	}
}
