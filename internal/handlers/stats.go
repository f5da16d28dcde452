package handlers

import (
	"net/http"

	"flowread-backend/internal/repository"
)

type StatsHandler struct {
	stats repository.StatsStore
}

func NewStatsHandler(stats repository.StatsStore) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Aggregate(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute stats", r))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
