package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/randomnamegen/namegen-backend/config"
	"github.com/randomnamegen/namegen-backend/internal/bootstrap"
	cronjob "github.com/randomnamegen/namegen-backend/internal/cron"
	"github.com/randomnamegen/namegen-backend/internal/names/usages"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	catalog, err := usages.Default()
	if err != nil {
		logg.Fatal("load usage catalog", "error", err)
	}

	names := bootstrap.NewNameService(cfg.Upstream, logg)
	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logg,
		Names:          names,
		Catalog:        catalog,
	})
	if err != nil {
		logg.Fatal("build router", "error", err)
	}

	scheduler := cronjob.NewScheduler(logg)
	if err := scheduler.Start(cfg.Jobs.MetricsReportSchedule); err != nil {
		logg.Fatal("start scheduler", "error", err)
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", "error", err)
	}
}
