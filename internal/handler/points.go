package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/pulse/internal/audit"
	"github.com/dukerupert/pulse/internal/auth"
	"github.com/dukerupert/pulse/internal/model"
	"github.com/dukerupert/pulse/internal/store"
	"github.com/dukerupert/pulse/internal/websocket"
)

// PointsHandler serves the authenticated user's balance, grants, the
// redemption workflow, and transaction history.
type PointsHandler struct {
	users        *store.UserStore
	rewards      *store.RewardStore
	transactions *store.TransactionStore
	audit        *audit.Recorder
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewPointsHandler(
	us *store.UserStore,
	rs *store.RewardStore,
	ts *store.TransactionStore,
	rec *audit.Recorder,
	hub *websocket.Hub,
	logger *slog.Logger,
) *PointsHandler {
	return &PointsHandler{
		users:        us,
		rewards:      rs,
		transactions: ts,
		audit:        rec,
		hub:          hub,
		logger:       logger,
	}
}

func (h *PointsHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get points", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"points": user.Points})
}

func (h *PointsHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points int `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Points <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid points value.")
		return
	}

	userID := auth.UserID(r.Context())
	user, err := h.users.AddPoints(userID, req.Points)
	if err != nil {
		h.logger.Error("add points", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("points", "granted", userID, map[string]any{
		"amount":  req.Points,
		"balance": user.Points,
	}))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Added %d points successfully!", req.Points),
	})
}

func (h *PointsHandler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RewardID int64 `json:"rewardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID := auth.UserID(r.Context())
	reward, err := h.rewards.Redeem(userID, req.RewardID)
	if errors.Is(err, store.ErrRewardUnavailable) {
		writeError(w, http.StatusNotFound, "Reward not found or out of stock.")
		return
	}
	if errors.Is(err, store.ErrInsufficientPoints) {
		writeError(w, http.StatusBadRequest, "Insufficient points.")
		return
	}
	if err != nil {
		h.logger.Error("redeem reward", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.audit.Record(userID, "redeem-reward",
		fmt.Sprintf("Redeemed reward: %s, Points Required: %d", reward.Name, reward.PointsRequired))

	h.hub.Broadcast(websocket.NewEvent("reward", "redeemed", reward.ID, map[string]any{
		"user_id": userID,
		"stock":   reward.Stock,
	}))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reward redeemed successfully!",
		"reward":  reward.Name,
	})
}

func (h *PointsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactions.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}
