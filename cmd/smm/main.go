package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Utkarsh-OTS/smm/internal/analysis"
	"github.com/Utkarsh-OTS/smm/internal/handlers"
	"github.com/Utkarsh-OTS/smm/internal/metrics"
	"github.com/Utkarsh-OTS/smm/internal/scheduler"
	"github.com/Utkarsh-OTS/smm/internal/store"
	"github.com/Utkarsh-OTS/smm/pkg/auth"
	"github.com/Utkarsh-OTS/smm/pkg/clients/engagement"
	"github.com/Utkarsh-OTS/smm/pkg/config"
	"github.com/Utkarsh-OTS/smm/pkg/database"
	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/monitoring"
	"github.com/Utkarsh-OTS/smm/pkg/redis"
	"github.com/Utkarsh-OTS/smm/pkg/server"
	"github.com/Utkarsh-OTS/smm/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("smm")
	config.LoadEnv(logger)
	settings := config.LoadSettings()

	databaseURL := config.RequireEnv("DATABASE_URL")
	jwtSecret := config.RequireEnv("JWT_SECRET")

	dbConfig := database.DefaultConfig()
	dbConfig.URL = databaseURL
	db := database.MustConnect(dbConfig, logger)

	st := store.New(db, logger)
	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := st.Migrate(migrateCtx); err != nil {
		cancel()
		logger.WithError(err).Fatal("Failed to apply database schema")
	}
	cancel()

	var redisClient *goredis.Client
	if redisURL := config.GetEnv("REDIS_URL", ""); redisURL != "" {
		ctx, cancelRedis := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := redis.NewClientFromURL(ctx, redisURL)
		cancelRedis()
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		redisClient = client
	}

	healthChecker := monitoring.NewHealthChecker("smm", version.Version)
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	if redisClient != nil {
		healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	}
	healthChecker.AddCheck("configuration", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": databaseURL,
		"JWT_SECRET":   jwtSecret,
	}))

	collector := monitoring.NewMetricsCollector("smm", version.Version, version.GitCommit)
	serviceMetrics := metrics.New(collector)

	var feed analysis.EngagementFeed
	if feedURL := config.GetEnv("ENGAGEMENT_FEED_URL", ""); feedURL != "" {
		feed = engagement.NewClient(engagement.Config{
			BaseURL: feedURL,
			Token:   config.GetEnv("ENGAGEMENT_FEED_TOKEN", ""),
			Logger:  logger,
		})
	}

	analyzer := analysis.New(feed, nil, logger)
	cache := analysis.NewCache(redisClient, settings.AnalysisCacheTTL, logger)

	sched := scheduler.New(st, analyzer, cache, nil, serviceMetrics, settings, logger)
	if err := sched.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	handlers.Init(st, cache, sched, serviceMetrics, settings, logger)

	router := server.SetupServiceRouter(logger, "smm", healthChecker, collector)
	api := router.Group("/api")
	api.Use(auth.JWTAuthMiddleware([]byte(jwtSecret)))
	{
		api.GET("/tweets/scheduled", handlers.ListScheduled)
		api.POST("/tweets/scheduled", handlers.CreateScheduled)
		api.DELETE("/tweets/scheduled/:id", handlers.DeleteScheduled)
		api.PUT("/tweets/scheduled/:id/schedule", handlers.RescheduleTweet)
		api.POST("/tweets/scheduled/:id/posted", handlers.MarkPosted)
		api.GET("/dashboard", handlers.GetDashboard)
		api.GET("/calendar", handlers.GetCalendar)
		api.POST("/analysis/run", handlers.RunAnalysis)
		api.GET("/analysis", handlers.GetAnalysis)
	}

	// Ops surface: lets a deploy hook or on-call kick the dispatcher without
	// waiting for the next tick.
	if serviceToken := config.GetEnv("SERVICE_TOKEN", ""); serviceToken != "" {
		internalGroup := router.Group("/internal")
		internalGroup.Use(auth.ServiceAuthMiddleware(serviceToken))
		internalGroup.POST("/dispatch/run", func(c *gin.Context) {
			published, err := sched.DispatchOnce(c.Request.Context(), time.Now().UTC())
			if err != nil {
				logger.WithError(err).Error("Manual dispatch run failed")
				c.JSON(500, gin.H{"error": "dispatch failed"})
				return
			}
			c.JSON(200, gin.H{"published": published})
		})
	}

	serverConfig := server.DefaultConfig("smm", settings.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server shutdown failed")
	}
}
