package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"crossref-service/internal/audit"
	"crossref-service/internal/catalog"
	"crossref-service/internal/config"
	matchHnd "crossref-service/internal/match/handler"
	"crossref-service/internal/middleware"
	"crossref-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, cat *catalog.Catalog, sink audit.Sink) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))

	r.Get("/health", handlers.Health)

	r.Get("/families", matchHnd.Families(cat))
	r.Get("/families/{familyID}", matchHnd.Family(cat))

	r.Post("/match", matchHnd.Match(cat, logger, sink))
	r.Post("/missing", matchHnd.Missing(cat, logger))
	r.Post("/parts/import", matchHnd.ImportParts(cfg, logger))

	return r
}
