/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function: it rate limits, verifies the
bearer credential before the connection is considered live, upgrades the HTTP
connection to WebSocket, and initiates the client lifecycle. A connection that
fails authentication is rejected before any relay state is mutated.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"linguachat/internal/app/relay"
	"linguachat/internal/pkg/auth/jwt"
	"linguachat/internal/pkg/errs"
	"linguachat/internal/pkg/limiter"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/resp"
)

// connectionToken extracts the credential attached to a WebSocket request.
// Browser WebSocket clients cannot set an Authorization header, so the token
// query parameter is checked first, with the header as a fallback for
// non-browser clients.
func connectionToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	return jwt.BearerToken(r)
}

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		token := connectionToken(r)
		if token == "" {
			logx.Warn("WebSocket connection rejected: missing credential")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(token, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection rejected: invalid credential", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		currentUser, err := deps.Repo.FindUserByID(r.Context(), payload.UserID)
		if err != nil {
			logx.Warn("WebSocket connection rejected: unknown subject", "user_id", payload.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := relay.NewClient(deps.Hub, conn, currentUser)

		go client.WritePump()

		logx.Info("WebSocket connection established", "user_id", currentUser.ID, "email", payload.Email)

		deps.Hub.Register(client)

		client.ReadPump()
	}
}
