package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/karmatic-mx/trust-engine/internal/domain"
	"github.com/karmatic-mx/trust-engine/internal/service"
)

// maxBodyBytes caps request bodies; review batches can be large.
const maxBodyBytes = 8 << 20

type Handler struct {
	service service.Service
	logger  *zerolog.Logger
}

func NewHandler(s service.Service, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{
		service: s,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/agencies", h.CreateAgency)
	r.Post("/v1/agencies/{id}/reviews", h.CreateReview)
	r.Post("/v1/agencies/{id}/trust", h.RecalculateTrust)
	r.Get("/v1/agencies/{id}/trust", h.CheckTrust)
	r.Get("/v1/cities/{city}/ranking", h.CityRanking)
	r.Post("/v1/analyze", h.Analyze)
	r.Post("/v1/rank", h.Rank)
}

func (h *Handler) CreateAgency(w http.ResponseWriter, r *http.Request) {
	var req CreateAgencyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	agency, err := h.service.RegisterAgency(r.Context(), req.toAgency())
	if err != nil {
		h.fail(w, "RegisterAgency", err)
		return
	}

	writeJSON(w, http.StatusCreated, agency)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.IngestReview(r.Context(), chi.URLParam(r, "id"), req.toReview()); err != nil {
		h.fail(w, "IngestReview", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}

func (h *Handler) RecalculateTrust(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.CalculateAndSaveTrust(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "CalculateAndSaveTrust", err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) CheckTrust(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.CheckTrust(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "CheckTrust", err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) CityRanking(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ranking, err := h.service.CityRanking(r.Context(), chi.URLParam(r, "city"), limit)
	if err != nil {
		h.fail(w, "CityRanking", err)
		return
	}
	if ranking == nil {
		ranking = []*domain.AgencyTrust{}
	}

	writeJSON(w, http.StatusOK, ranking)
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.service.Analyze(r.Context(), req.Agency, req.Reviews, req.Origin))
}

func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.service.RankAgencies(r.Context(), req.Agencies, req.Origin)
	if err != nil {
		h.fail(w, "RankAgencies", err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// fail maps domain errors to client errors; anything else is logged and hidden.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrAgencyNotFound):
		http.Error(w, domain.ErrAgencyNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidAgency),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrPhoneWrongRegion),
		errors.Is(err, domain.ErrInvalidRating):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("❌ request failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
