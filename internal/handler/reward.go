package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pulse/internal/model"
	"github.com/dukerupert/pulse/internal/store"
)

// RewardHandler serves the public reward catalog.
type RewardHandler struct {
	rewards *store.RewardStore
	logger  *slog.Logger
}

func NewRewardHandler(rs *store.RewardStore, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewards: rs, logger: logger}
}

// List returns rewards that still have stock. Depleted rewards are only
// visible through the admin endpoints.
func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.ListInStock()
	if err != nil {
		h.logger.Error("list rewards", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"rewards": rewards})
}
