/*
Package handler provides the HTTP handler function for conversation history.

History is served from the relay's in-memory append-only log, so it covers the
current process lifetime only. Persistence is deliberately out of scope.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"linguachat/internal/pkg/auth/jwt"
	"linguachat/internal/pkg/errs"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/resp"
)

// HandleListMessages returns the messages exchanged between the authenticated
// user and a friend, in arrival order. Only accepted friends may read a
// conversation.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		friendID := chi.URLParam(r, "friendId")
		if friendID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		isFriend, err := deps.Repo.IsFriend(r.Context(), identity.UserID, friendID)
		if err != nil {
			logx.Error(err, "list_messages: friendship check failed", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !isFriend {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotFriends))
			return
		}

		resp.RespondSuccess(w, r, deps.Hub.History(identity.UserID, friendID))
	}
}
