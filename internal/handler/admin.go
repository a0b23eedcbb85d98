package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pulse/internal/model"
	"github.com/dukerupert/pulse/internal/store"
	"github.com/dukerupert/pulse/internal/websocket"
)

// AdminHandler serves the admin console: user management, reward
// inventory, and the audit trail. Every route is gated by the admin role
// in the middleware chain.
type AdminHandler struct {
	users   *store.UserStore
	rewards *store.RewardStore
	logs    *store.LogStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewAdminHandler(us *store.UserStore, rs *store.RewardStore, ls *store.LogStore, hub *websocket.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:   us,
		rewards: rs,
		logs:    ls,
		hub:     hub,
		logger:  logger,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// UpdatePoints sets a user's balance to an absolute value.
func (h *AdminHandler) UpdatePoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64 `json:"userId"`
		Points int   `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Points < 0 {
		writeError(w, http.StatusBadRequest, "Points must not be negative.")
		return
	}

	existing, err := h.users.GetByID(req.UserID)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	user, err := h.users.SetPoints(req.UserID, req.Points)
	if err != nil {
		h.logger.Error("set points", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("points", "set", user.ID, map[string]any{
		"balance": user.Points,
	}))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Points updated successfully!"})
}

func (h *AdminHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.List()
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

type rewardRequest struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	Description    string `json:"description"`
	Stock          int    `json:"stock"`
}

func (req *rewardRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "Name is required."
	}
	if req.PointsRequired <= 0 {
		return "points_required must be positive."
	}
	if req.Stock < 0 {
		return "Stock must not be negative."
	}
	return ""
}

func (h *AdminHandler) AddReward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	reward, err := h.rewards.Create(req.Name, req.PointsRequired, req.Description, req.Stock)
	if err != nil {
		h.logger.Error("create reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("reward", "created", reward.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Reward added successfully!",
		"reward":  reward,
	})
}

func (h *AdminHandler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.rewards.GetByID(req.ID)
	if err != nil {
		h.logger.Error("get reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Reward not found.")
		return
	}

	reward, err := h.rewards.Update(req.ID, req.Name, req.PointsRequired, req.Description, req.Stock)
	if err != nil {
		h.logger.Error("update reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("reward", "updated", reward.ID, nil))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reward updated successfully!",
		"reward":  reward,
	})
}

func (h *AdminHandler) DeleteReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	existing, err := h.rewards.GetByID(req.ID)
	if err != nil {
		h.logger.Error("get reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Reward not found.")
		return
	}

	if err := h.rewards.Delete(req.ID); err != nil {
		h.logger.Error("delete reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("reward", "deleted", req.ID, nil))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Reward deleted successfully!"})
}

func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.logs.List()
	if err != nil {
		h.logger.Error("list logs", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if logs == nil {
		logs = []model.LogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}
