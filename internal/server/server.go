package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/pulse/internal/audit"
	"github.com/dukerupert/pulse/internal/handler"
	"github.com/dukerupert/pulse/internal/middleware"
	"github.com/dukerupert/pulse/internal/store"
	"github.com/dukerupert/pulse/internal/token"
	ws "github.com/dukerupert/pulse/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	signer      *token.Signer
	authH       *handler.AuthHandler
	pointsH     *handler.PointsHandler
	rewardH     *handler.RewardHandler
	adminH      *handler.AdminHandler
	rateLimiter *middleware.RateLimiter
	recorder    *audit.Recorder
	logger      *slog.Logger
}

func New(db *sql.DB, jwtSecret string, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	signer := token.NewSigner(jwtSecret)

	userStore := store.NewUserStore(db)
	rewardStore := store.NewRewardStore(db)
	transactionStore := store.NewTransactionStore(db)
	logStore := store.NewLogStore(db)

	recorder := audit.NewRecorder(logStore, logger.With("component", "audit"))

	return &Server{
		db:          db,
		hub:         hub,
		signer:      signer,
		authH:       handler.NewAuthHandler(userStore, signer, recorder, hub, logger.With("component", "auth")),
		pointsH:     handler.NewPointsHandler(userStore, rewardStore, transactionStore, recorder, hub, logger.With("component", "points")),
		rewardH:     handler.NewRewardHandler(rewardStore, logger.With("component", "reward")),
		adminH:      handler.NewAdminHandler(userStore, rewardStore, logStore, hub, logger.With("component", "admin")),
		rateLimiter: middleware.NewRateLimiter(),
		recorder:    recorder,
		logger:      logger,
	}
}

// Close drains the audit recorder. Call after the HTTP server has shut
// down and before the database closes.
func (s *Server) Close() {
	s.recorder.Close()
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /rewards", s.rewardH.List)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — valid bearer token required
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /points", s.pointsH.GetPoints)
	protectedMux.HandleFunc("POST /add-points", s.pointsH.AddPoints)
	protectedMux.HandleFunc("POST /redeem-reward", s.pointsH.RedeemReward)
	protectedMux.HandleFunc("GET /transactions", s.pointsH.ListTransactions)

	// Admin routes — bearer token plus admin role
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /admin/users", s.adminH.ListUsers)
	adminMux.HandleFunc("POST /admin/update-points", s.adminH.UpdatePoints)
	adminMux.HandleFunc("GET /admin/rewards", s.adminH.ListRewards)
	adminMux.HandleFunc("POST /admin/add-reward", s.adminH.AddReward)
	adminMux.HandleFunc("POST /admin/update-reward", s.adminH.UpdateReward)
	adminMux.HandleFunc("DELETE /admin/delete-reward", s.adminH.DeleteReward)
	adminMux.HandleFunc("GET /admin/logs", s.adminH.ListLogs)

	protectedMux.Handle("/admin/", middleware.RequireAdmin(adminMux))
	protectedMux.Handle("GET /ws", middleware.RequireAdmin(ws.HandleWebSocket(s.hub)))

	authMiddleware := middleware.RequireAuth(s.signer)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
