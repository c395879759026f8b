/*
Package handler provides HTTP handler functions for the friends list and friend requests.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linguachat/internal/app/repo"
	"linguachat/internal/pkg/auth/jwt"
	"linguachat/internal/pkg/errs"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/req"
	"linguachat/internal/pkg/resp"
)

// friendView is the friends-list entry shape, a user profile enriched with
// live presence from the relay.
type friendView struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	PreferredLanguage string `json:"preferredLanguage"`
	IsOnline          bool   `json:"isOnline"`
}

// HandleListFriends returns the authenticated user's friends with presence.
func HandleListFriends(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		friends, err := deps.Repo.ListFriends(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "list_friends: repository failure", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		views := make([]friendView, 0, len(friends))
		for _, friend := range friends {
			views = append(views, friendView{
				ID:                friend.ID,
				Name:              friend.Name,
				Email:             friend.Email,
				PreferredLanguage: friend.PreferredLanguage,
				IsOnline:          deps.Hub.IsOnline(friend.ID),
			})
		}

		resp.RespondSuccess(w, r, views)
	}
}

// HandleListFriendRequests returns the pending requests addressed to the
// authenticated user.
func HandleListFriendRequests(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		requests, err := deps.Repo.ListFriendRequests(r.Context(), identity.UserID)
		if err != nil {
			logx.Error(err, "list_friend_requests: repository failure", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, requests)
	}
}

type FriendRequestInput struct {
	ReceiverID string `json:"receiver_id"`
}

// HandleCreateFriendRequest sends a friend request from the authenticated user.
func HandleCreateFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ReceiverID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.ReceiverID == identity.UserID {
			resp.RespondError(w, r, errs.NewError(errs.ErrSelfFriendRequest))
			return
		}

		request, err := deps.Repo.CreateFriendRequest(r.Context(), identity.UserID, input.ReceiverID)
		if err != nil {
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestExists))
			case errors.Is(err, repo.ErrNotFound):
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			default:
				logx.Error(err, "create_friend_request: repository failure", "user_id", identity.UserID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		resp.RespondSuccess(w, r, request)
	}
}

// HandleResolveFriendRequest accepts or rejects a pending request addressed to
// the authenticated user. The decision is taken from the route, not the body.
func HandleResolveFriendRequest(deps *AppDeps, status repo.FriendRequestStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		requestID := chi.URLParam(r, "id")
		if requestID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		request, err := deps.Repo.UpdateFriendRequestStatus(r.Context(), requestID, identity.UserID, status)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestNotFound))
				return
			}

			logx.Error(err, "resolve_friend_request: repository failure", "request_id", requestID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, request)
	}
}
