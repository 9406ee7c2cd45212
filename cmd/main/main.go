package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crossref-service/internal/audit"
	"crossref-service/internal/catalog"
	"crossref-service/internal/config"
	serverhttp "crossref-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.CatalogDir).Msg("load catalog")
	}
	logger.Info().Int("families", len(cat.Families())).Str("dir", cfg.CatalogDir).Msg("catalog loaded")

	sink := audit.NewLogSink(logger)
	r := serverhttp.NewRouter(cfg, logger, cat, sink)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
