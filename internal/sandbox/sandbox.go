// Package sandbox assembles the API server the mobile client talks to, on
// memory or MongoDB storage.
package sandbox

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mehrbod2002/fxmobile/internal/config"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/api"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/middleware"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/service"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/ws"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repositories struct {
	Users        repository.UserRepository
	MT5          repository.MT5Repository
	Transactions repository.TransactionRepository
	Bots         repository.BotRepository
	Logs         repository.LogRepository
	OTP          repository.OTPStore
}

func MemoryRepositories() Repositories {
	return Repositories{
		Users:        repository.NewMemoryUserRepository(),
		MT5:          repository.NewMemoryMT5Repository(),
		Transactions: repository.NewMemoryTransactionRepository(),
		Bots:         repository.NewMemoryBotRepository(),
		Logs:         repository.NewMemoryLogRepository(),
		OTP:          repository.NewMemoryOTPStore(),
	}
}

// MongoRepositories keeps OTPs in memory; pair it with a RedisOTPStore to
// share codes between instances.
func MongoRepositories(client *mongo.Client, dbName string) Repositories {
	return Repositories{
		Users:        repository.NewUserRepository(client, dbName, "users"),
		MT5:          repository.NewMT5Repository(client, dbName),
		Transactions: repository.NewTransactionRepository(client, dbName, "transactions"),
		Bots:         repository.NewBotRepository(client, dbName),
		Logs:         repository.NewLogRepository(client, dbName, "logs"),
		OTP:          repository.NewMemoryOTPStore(),
	}
}

type Server struct {
	Engine   *gin.Engine
	Hub      *ws.Hub
	Services api.Services
}

// New wires services over repos, seeds the plan catalogues and starts the
// event hub, which stops with ctx.
func New(ctx context.Context, cfg *config.Config, repos Repositories) (*Server, error) {
	hub := ws.NewHub()
	go hub.Run(ctx)

	logService := service.NewLogService(repos.Logs)
	userService := service.NewUserService(repos.Users, logService, hub)
	svc := api.Services{
		Users:  userService,
		OTP:    service.NewOTPService(repos.OTP, userService, logService, cfg.OTPTTL, cfg.DemoOTP),
		MT5:    service.NewMT5Service(repos.MT5, userService, logService),
		Wallet: service.NewWalletService(repos.Transactions, repos.Users, repos.MT5, logService, hub),
		Bots:   service.NewBotService(repos.Bots, userService, logService, hub),
		Logs:   logService,
	}
	if err := svc.MT5.SeedPlans(service.DefaultMT5Plans()); err != nil {
		return nil, fmt.Errorf("seed MT5 plans: %w", err)
	}
	if err := svc.Bots.SeedPlans(service.DefaultBotPlans()); err != nil {
		return nil, fmt.Errorf("seed bot plans: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	api.SetupRoutes(r, cfg, svc, ws.NewWebSocketHandler(hub, cfg.JWTSecret))

	return &Server{Engine: r, Hub: hub, Services: svc}, nil
}
