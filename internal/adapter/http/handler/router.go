package handler

import (
	"energy-dex/internal/adapter/http/middleware"
	"energy-dex/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SessionSvc ports.SessionManager
	SyncSvc    ports.StateSync
	OrderSvc   ports.OrderEngine
	Tokenizer  ports.Tokenizer
	Gateway    ports.LedgerConn
	Logger     zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))

	stateHandler := NewStateHandler(deps.SessionSvc, deps.SyncSvc, deps.Gateway)
	r.GET("/healthz", stateHandler.Health)

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	authHandler := NewAuthHandler(deps.SessionSvc)
	v1.POST("/auth/login", authHandler.Login)

	// --- Session-authenticated routes ---
	auth := middleware.SessionAuth(deps.SessionSvc, deps.Logger)
	tradingHandler := NewTradingHandler(deps.OrderSvc)
	assetHandler := NewAssetHandler(deps.Tokenizer)

	private := v1.Group("", auth)
	{
		private.POST("/auth/logout", authHandler.Logout)
		private.GET("/snapshot", stateHandler.GetSnapshot)
		private.POST("/refresh", stateHandler.Refresh)
		private.GET("/marketplace", stateHandler.Marketplace)
		private.POST("/orders", tradingHandler.CreateOrder)
		private.DELETE("/orders/:id", tradingHandler.CancelOrder)
		private.POST("/trades", tradingHandler.ExecuteTrade)
		private.POST("/assets/mint", assetHandler.Mint)
	}

	return r
}
