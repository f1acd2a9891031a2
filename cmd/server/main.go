package main

import (
	"log"

	"autodm-gateway/internal/api"
	"autodm-gateway/internal/automation"
	"autodm-gateway/internal/config"
	"autodm-gateway/internal/database"
	"autodm-gateway/internal/instagram"
	"autodm-gateway/internal/store"
	"autodm-gateway/internal/webhook"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	st := store.New(db)
	igClient := instagram.NewClient(cfg.GraphAPIBaseURL, cfg.GraphTimeout)
	dedup := automation.NewDedupCache(cfg.DedupTTL)
	dispatcher := automation.NewDispatcher(igClient, st, logger)
	engine := automation.NewEngine(st, dispatcher, dedup, logger)

	webhookHandler := webhook.NewHandler(cfg, engine, logger)
	accountHandler := api.NewAccountHandler(st, igClient)
	automationHandler := api.NewAutomationHandler(st)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleEvents)

	// Management API Routes
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/instagram/credentials", accountHandler.SaveCredentials)
		apiGroup.GET("/instagram/media", accountHandler.GetMedia)

		apiGroup.GET("/automations", automationHandler.GetRules)
		apiGroup.POST("/automations", automationHandler.CreateRule)
		apiGroup.PUT("/automations/:id", automationHandler.UpdateRule)
		apiGroup.DELETE("/automations/:id", automationHandler.DeleteRule)
		apiGroup.POST("/automations/:id/toggle", automationHandler.ToggleRule)
		apiGroup.GET("/automations/logs", automationHandler.GetLogs)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
