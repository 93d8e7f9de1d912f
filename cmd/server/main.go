package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "veritas/internal/http"
	"veritas/internal/materiality"
	materialityhandler "veritas/internal/materiality/handler"
	"veritas/internal/planning"
	planninghandler "veritas/internal/planning/handler"
	planningmetrics "veritas/internal/planning/metrics"
	"veritas/internal/platform/config"
	"veritas/internal/platform/httpserver"
	"veritas/internal/platform/logger"
	"veritas/internal/program"
	programhandler "veritas/internal/program/handler"
	programmetrics "veritas/internal/program/metrics"
	"veritas/internal/reftables"
	"veritas/internal/risk"
	riskhandler "veritas/internal/risk/handler"
	riskmetrics "veritas/internal/risk/metrics"
	riskstore "veritas/internal/risk/store"
	"veritas/internal/sampling"
	samplinghandler "veritas/internal/sampling/handler"
	samplingmetrics "veritas/internal/sampling/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	tables := reftables.MustLoad()

	materialitySvc := materiality.NewService(log)

	riskSvc, err := risk.NewService(tables, riskstore.NewInMemoryAssessmentStore(), log, riskmetrics.New())
	if err != nil {
		log.Error("failed to build risk service", "error", err)
		os.Exit(1)
	}

	samplingSvc, err := sampling.NewService(tables, log, samplingmetrics.New())
	if err != nil {
		log.Error("failed to build sampling service", "error", err)
		os.Exit(1)
	}

	programSvc, err := program.NewService(tables, log, programmetrics.New())
	if err != nil {
		log.Error("failed to build program service", "error", err)
		os.Exit(1)
	}

	planningSvc, err := planning.NewService(materialitySvc, riskSvc, programSvc, log, planningmetrics.New())
	if err != nil {
		log.Error("failed to build planning service", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(
		materialityhandler.New(materialitySvc, log),
		riskhandler.New(riskSvc, log),
		samplinghandler.New(samplingSvc, log),
		programhandler.New(programSvc, log),
		planninghandler.New(planningSvc, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting veritas", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("veritas stopped")
}
