package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"crossref-service/internal/catalog"
	"crossref-service/internal/middleware"
)

// reqLogger scopes the logger to the current request id.
func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUnknownFamily answers 404, adding a "did you mean" hint when a close
// family id exists.
func writeUnknownFamily(w http.ResponseWriter, cat *catalog.Catalog, familyID string) {
	body := map[string]string{"error": fmt.Sprintf("unknown family %q", familyID)}
	if s := cat.Suggest(familyID); s != "" {
		body["suggestion"] = s
	}
	writeJSON(w, http.StatusNotFound, body)
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
