package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/joho/godotenv"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/internal/server"
	"github.com/Sweta1G/chat-widget/internal/transcriptlog"
	"github.com/Sweta1G/chat-widget/internal/widget"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
	"github.com/Sweta1G/chat-widget/pkg/voice/piper"
)

// This is the main entry point for the widget API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	logger.Info("Logger initialized")

	// vendor client; an empty key means demo/offline mode, not a startup error
	sarvamClient := sarvam.New(cfg.Sarvam.APIKey, cfg.Sarvam.BaseURL, logger)
	if !sarvamClient.HasCredential() {
		logger.Warn("SARVAM_API_KEY not set; serving demo replies only")
	}

	// optional local TTS sidecar
	var piperClient *piper.Piper
	if cfg.Piper.URL != "" {
		p := piper.New(cfg.Piper.URL)
		p.Voice = cfg.Piper.Voice
		piperClient = &p
	}

	// optional transcript mirror
	var transcriptLog *transcriptlog.Store
	if cfg.Redis.Addr != "" {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Pass,
			DB:       cfg.TranscriptDB,
		})
		if err := rc.Ping().Err(); err != nil {
			logger.Warnf("redis unreachable, transcript logging disabled: %v", err)
		} else {
			transcriptLog = transcriptlog.New(rc, 24*time.Hour, logger)
			logger.Info("Transcript logging enabled")
		}
	}

	// compose router
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	dep := server.NewServerDependencies(
		widget.NewRegistry(),
		sarvamClient,
		piperClient,
		transcriptLog,
		logger,
		cfg,
	)
	server.InitializeRoutes(router, dep)

	// listen with graceful exit
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
