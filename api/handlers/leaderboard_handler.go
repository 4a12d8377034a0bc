package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	leaderboardservice "github.com/guildworks/pulse-bot/app/modules/leaderboard/application"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// LeaderboardHandler serves the read-only ranked views.
type LeaderboardHandler struct {
	service leaderboardservice.Service
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(service leaderboardservice.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetStandings retrieves one ranked leaderboard page.
func (h *LeaderboardHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	guildID := sharedtypes.GuildID(chi.URLParam(r, "guildID"))

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.service.GetStandings(r.Context(), guildID, offset, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch leaderboard: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// ExportStandings streams the full leaderboard as an xlsx workbook.
func (h *LeaderboardHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	guildID := sharedtypes.GuildID(chi.URLParam(r, "guildID"))

	workbook, err := h.service.ExportStandings(r.Context(), guildID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to export leaderboard: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leaderboard_"+guildID.String()+".xlsx"))
	_, _ = w.Write(workbook)
}
