// Package handler exposes the matching engine over HTTP: family listing,
// candidate ranking, missing-attribute checks and parametric sheet import.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"crossref-service/internal/audit"
	"crossref-service/internal/catalog"
	"crossref-service/internal/config"
	"crossref-service/internal/fileio"
	"crossref-service/internal/match/model"
	svc "crossref-service/internal/match/service"
	"crossref-service/internal/middleware"
)

// Match ranks the request's candidates against its source part using the
// family's logic table, reweighted by any context answers.
func Match(cat *catalog.Catalog, logger zerolog.Logger, sink audit.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)
		defer r.Body.Close()

		var req model.MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		req.FamilyID = strings.TrimSpace(req.FamilyID)
		if req.FamilyID == "" {
			writeError(w, http.StatusBadRequest, "familyId is required")
			return
		}
		if strings.TrimSpace(req.Source.Part) == "" {
			writeError(w, http.StatusBadRequest, "source.part is required")
			return
		}

		table, ok := cat.Table(req.FamilyID)
		if !ok {
			writeUnknownFamily(w, cat, req.FamilyID)
			return
		}

		effective := table
		if len(req.Answers) > 0 {
			app := model.ApplicationContext{FamilyID: req.FamilyID, Answers: req.Answers}
			effective = svc.ApplyContext(table, app, cat.ContextConfig(req.FamilyID))
		}

		recs := svc.Rank(req.Source, req.Candidates, effective)
		missing := svc.MissingAttributes(req.Source, effective)

		writeJSON(w, http.StatusOK, model.MatchResponse{
			FamilyID:        req.FamilyID,
			Source:          req.Source.Part,
			EffectiveRules:  effective.Rules,
			Recommendations: recs,
			MissingOnSource: missing,
		})

		top, topScore := "", 0
		if len(recs) > 0 {
			top, topScore = recs[0].Part, recs[0].MatchPercentage
		}
		sink.Record(audit.Entry{
			RequestID:  middleware.GetRequestID(r),
			FamilyID:   req.FamilyID,
			SourcePart: req.Source.Part,
			Candidates: len(req.Candidates),
			TopPart:    top,
			TopScore:   topScore,
			Elapsed:    time.Since(start),
		})
		log.Info().
			Str("family_id", req.FamilyID).
			Int("candidates", len(req.Candidates)).
			Int("answers", len(req.Answers)).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

// Missing reports which of the family's scored attributes the given part has
// no data for, heaviest first.
func Missing(cat *catalog.Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		defer r.Body.Close()

		var req model.MissingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		req.FamilyID = strings.TrimSpace(req.FamilyID)
		if req.FamilyID == "" {
			writeError(w, http.StatusBadRequest, "familyId is required")
			return
		}
		if strings.TrimSpace(req.Part.Part) == "" {
			writeError(w, http.StatusBadRequest, "part.part is required")
			return
		}

		table, ok := cat.Table(req.FamilyID)
		if !ok {
			writeUnknownFamily(w, cat, req.FamilyID)
			return
		}

		missing := svc.MissingAttributes(req.Part, table)
		writeJSON(w, http.StatusOK, struct {
			FamilyID string                       `json:"familyId"`
			Part     string                       `json:"part"`
			Missing  []model.MissingAttributeInfo `json:"missing"`
		}{req.FamilyID, req.Part.Part, missing})

		log.Info().
			Str("family_id", req.FamilyID).
			Str("part", req.Part.Part).
			Int("missing", len(missing)).
			Msg("missing done")
	}
}

// Families lists every loaded family.
func Families(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Families []model.FamilySummary `json:"families"`
		}{cat.Families()})
	}
}

// Family returns one family's full logic table and context questions.
func Family(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "familyID")
		table, ok := cat.Table(id)
		if !ok {
			writeUnknownFamily(w, cat, id)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			model.LogicTable
			Questions []model.ContextQuestion `json:"questions"`
		}{table, cat.ContextConfig(id).Questions})
	}
}

// ImportParts parses an uploaded parametric sheet (CSV/XLS/XLSX) into part
// attribute sets ready to post to /match. part_column names the part-number
// column, header_row the 1-based header line.
func ImportParts(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		sheet, err := fileio.ReadSheet(file, header.Filename, atoi(r.FormValue("header_row"), 1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read sheet: "+err.Error())
			return
		}
		parts, err := sheet.ToParts(r.FormValue("part_column"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, struct {
			File  string                 `json:"file"`
			Rows  int                    `json:"rows"`
			Parts []model.PartAttributes `json:"parts"`
		}{header.Filename, len(sheet.Rows), parts})

		log.Info().
			Str("file", header.Filename).
			Int("rows", len(sheet.Rows)).
			Int("parts", len(parts)).
			Dur("elapsed", time.Since(start)).
			Msg("import done")
	}
}
