package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/calls"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/config"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/dedup"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/events"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/httpapi"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/reporting"
	"github.com/sddhantjaiii/Calling-agent-sub001/pkg/logger"
	"github.com/sddhantjaiii/Calling-agent-sub001/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Flush(log)
	zap.ReplaceGlobals(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, cfg.PostgresDSN(), utils.PostgresPoolConfig{MaxConns: cfg.DB.MaxConns})
	if err != nil {
		log.Fatal("postgres init failed", zap.Error(err))
	}
	defer db.Close()

	var deduper dedup.Deduper = dedup.NoopDeduper{}
	if cfg.RedisEnabled() {
		rdb, err := dedup.OpenRedis(rootCtx, cfg.Redis)
		if err != nil {
			log.Fatal("redis init failed", zap.Error(err))
		}
		defer rdb.Close()
		deduper = dedup.NewRedisDeduper(rdb, cfg.Dedup.TTL)
	} else {
		log.Info("redis not configured, delivery dedup relies on the calls table")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSEnabled() {
		natsCfg := events.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Subject = cfg.NATS.Subject
		np, err := events.Connect(natsCfg, log)
		if err != nil {
			log.Fatal("nats init failed", zap.Error(err))
		}
		defer np.Close()
		publisher = np
	}

	store := calls.NewPostgresRepo(db)
	h := httpapi.Handlers{
		Store:        store,
		Dedup:        deduper,
		Publisher:    publisher,
		Reports:      reporting.NewService(store),
		MaxBodyBytes: cfg.Webhook.MaxBodyBytes,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, h, db)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
}
