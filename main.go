package main

import (
	"time"

	"tenanthub/config"
	"tenanthub/database"
	routes "tenanthub/internal/app/http"
	"tenanthub/internal/auth"
	"tenanthub/internal/domain/billing"
	"tenanthub/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.LogLevel)
	defer log.Sync()

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	seeded, err := billing.NewStore(db).SeedPlans()
	if err != nil {
		log.Fatal("plan seeding failed", zap.Error(err))
	}
	if seeded {
		log.Info("seeded initial plan catalog")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authSvc := auth.NewService(db, log, tokens)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Log:     log,
		Metrics: observability.NewMetrics(),
		AuthSvc: authSvc,
	})

	log.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
