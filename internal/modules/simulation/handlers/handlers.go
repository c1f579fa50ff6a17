// Package handlers provides HTTP handlers for simulation operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/modules/simulation"
	"github.com/aristath/foresight/internal/montecarlo"
)

// Handler handles simulation HTTP requests
type Handler struct {
	service *simulation.Service
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(service *simulation.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// HandleRunSimulation handles POST /api/portfolio-simulation
func (h *Handler) HandleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, montecarlo.ErrInvalidConfig) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
			// Client went away mid-simulation; nothing to answer.
			h.log.Debug().Msg("Simulation aborted by client disconnect")
			return
		}
		h.log.Error().Err(err).Msg("Simulation failed")
		h.writeError(w, http.StatusInternalServerError, "Simulation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": resp,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleListRuns handles GET /api/simulations
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.service.ListRuns(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list simulation runs")
		h.writeError(w, http.StatusInternalServerError, "Failed to list simulation runs")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"runs":  runs,
			"count": len(runs),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetRun handles GET /api/simulations/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(id)
	if err != nil {
		if errors.Is(err, simulation.ErrRunNotFound) {
			h.writeError(w, http.StatusNotFound, "Simulation run not found")
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("Failed to get simulation run")
		h.writeError(w, http.StatusInternalServerError, "Failed to get simulation run")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": run,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
