package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mercato/internal/auth"
	"mercato/internal/buyer"
	"mercato/internal/dashboard"
	"mercato/internal/order"
	"mercato/internal/platform/config"
	"mercato/internal/platform/health"
	"mercato/internal/platform/logger"
	"mercato/internal/platform/metrics"
	"mercato/internal/product"
	"mercato/internal/reference"
	"mercato/internal/slider"
	"mercato/internal/subcategory"
	httptransport "mercato/internal/transport/http"
	"mercato/internal/upstream"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	client := upstream.New(cfg.UpstreamBaseURL, log,
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithMetrics(m),
	)

	if cfg.AdminPasswordHash == "" || cfg.JWTSigningKey == "" {
		log.Warn("session login disabled: MERCATO_ADMIN_PASSWORD_HASH and MERCATO_JWT_SIGNING_KEY must both be set")
	}
	authService := auth.New(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSigningKey, cfg.SessionTTL, log)
	refs := reference.NewService(client, log)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterUpstream("upstream", client, 5*time.Second)

	router := httptransport.NewRouter(httptransport.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Auth:      authService,
		Health:    healthHandler,
		AuthH:     auth.NewHandler(authService, log),
		Buyers:    buyer.NewHandler(buyer.NewService(client, log, m), log),
		Products:  product.NewHandler(product.NewService(client, log, m), log),
		Orders:    order.NewHandler(order.NewService(client, refs, log, m), log),
		Sliders:   slider.NewHandler(slider.NewService(client, log, m), log),
		SubCats:   subcategory.NewHandler(subcategory.NewService(client, log, m), log),
		Dashboard: dashboard.NewHandler(dashboard.NewService(client, log), log),
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
