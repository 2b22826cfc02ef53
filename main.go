package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/akarvir/url-shortener/cache"
	"github.com/akarvir/url-shortener/config"
	"github.com/akarvir/url-shortener/database"
	"github.com/akarvir/url-shortener/handlers"
	"github.com/akarvir/url-shortener/services"
	"github.com/akarvir/url-shortener/storage"
)

func main() {
	cfg := config.Load()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Printf("Sentry initialization failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize the database: %v", err)
	}
	store := storage.NewGormStore(db)

	var linkCache cache.LinkCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, 0)
		if err != nil {
			log.Printf("Redis cache unavailable, continuing without it: %v", err)
		} else {
			linkCache = redisCache
			defer redisCache.Close()
		}
	}

	service := services.NewShortener(store)
	handler := handlers.New(service, linkCache, cfg.BaseURL, cfg.StaticDir)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	handler.Register(router)

	log.Printf("URL Shortener starting on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
