package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// ProgressHandler serves individual member progress.
type ProgressHandler struct {
	service engagementservice.Service
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(service engagementservice.Service) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// GetProgress retrieves a member's progress snapshot. Members without a row
// yet read as a fresh level-0 state.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	guildID := sharedtypes.GuildID(chi.URLParam(r, "guildID"))
	memberID := sharedtypes.MemberID(chi.URLParam(r, "memberID"))

	snapshot, err := h.service.GetProgress(r.Context(), guildID, memberID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch progress: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}
