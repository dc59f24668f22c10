package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parimarket/internal/config"
	"parimarket/internal/database"
	"parimarket/internal/events"
	"parimarket/internal/handlers"
	"parimarket/internal/logger"
	"parimarket/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New("parimarket", cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if err := database.Connect(cfg.GetDSN()); err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Event fan-out is optional; with no broker configured, placements and
	// resolutions still commit, they just aren't broadcast.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		publisher = events.NewRedisPublisher(rdb)
		zlog.Info("Event publisher connected", zap.String("addr", cfg.Redis.Addr))
	}

	locks := services.NewMarketLocks()
	wagerService := services.NewWagerService(database.GetDB(), publisher, locks, zlog)
	settlementService := services.NewSettlementService(database.GetDB(), publisher, locks, zlog)

	marketHandler := handlers.NewMarketHandler(database.GetDB(), settlementService)
	wagerHandler := handlers.NewWagerHandler(wagerService)
	userHandler := handlers.NewUserHandler(database.GetDB(), cfg.App.InitialBalance)

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/markets", marketHandler.GetMarkets)
		api.GET("/markets/:id", marketHandler.GetMarketByID)
		api.POST("/markets", marketHandler.CreateMarket)
		api.POST("/markets/:id/resolve", marketHandler.ResolveMarket)

		api.POST("/bets", wagerHandler.PlaceBet)
		api.POST("/parlays", wagerHandler.PlaceParlay)

		api.POST("/users", userHandler.CreateUser)
		api.GET("/users/:id/stats", userHandler.GetStats)
		api.GET("/users/:id/ledger", userHandler.GetLedger)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}
