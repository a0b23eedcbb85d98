package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/pulse/internal/audit"
	"github.com/dukerupert/pulse/internal/store"
	"github.com/dukerupert/pulse/internal/token"
	"github.com/dukerupert/pulse/internal/websocket"
)

type AuthHandler struct {
	users  *store.UserStore
	signer *token.Signer
	audit  *audit.Recorder
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewAuthHandler(us *store.UserStore, signer *token.Signer, rec *audit.Recorder, hub *websocket.Hub, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  us,
		signer: signer,
		audit:  rec,
		hub:    hub,
		logger: logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	user, err := h.users.Create(req.Name, req.Email, string(hash))
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already registered.")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.hub.Broadcast(websocket.NewEvent("user", "registered", user.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully!",
		"userId":  user.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := h.users.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	signed, err := h.signer.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	h.audit.Record(user.ID, "login", "User logged in successfully")

	writeJSON(w, http.StatusOK, map[string]any{
		"token": signed,
		"user": map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
