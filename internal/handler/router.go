/*
Package handler provides the HTTP handlers and routing setup for the LinguaChat Server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"linguachat/internal/app/repo"
	"linguachat/internal/pkg/auth/jwt"
	"linguachat/internal/pkg/limiter"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/resp"
)

const (
	// AuthRate limits account creation and sign-in attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// ConnectRate limits WebSocket connection attempts per IP.
	ConnectRate  = 0.5
	ConnectBurst = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "LinguaChat Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(authLimiter.Middleware)

			public.Post("/auth/register", HandleRegister(deps))
			public.Post("/auth/login", HandleLogin(deps))
		})

		api.Group(func(authed chi.Router) {
			authed.Use(jwt.RequireAuth(deps.Config.JWTSecret))

			authed.Get("/auth/me", HandleGetMe(deps))
			authed.Post("/auth/profile", HandleUpdateProfile(deps))

			authed.Route("/friends", func(friends chi.Router) {
				friends.Get("/", HandleListFriends(deps))
				friends.Get("/requests", HandleListFriendRequests(deps))
				friends.Post("/request", HandleCreateFriendRequest(deps))
				friends.Post("/requests/{id}/accept", HandleResolveFriendRequest(deps, repo.StatusAccepted))
				friends.Post("/requests/{id}/reject", HandleResolveFriendRequest(deps, repo.StatusRejected))
			})

			authed.Get("/messages/{friendId}", HandleListMessages(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
