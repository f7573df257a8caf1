package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dailyreadnest/backend/internal/logging"
	"github.com/dailyreadnest/backend/internal/middleware"
	"github.com/dailyreadnest/backend/internal/repositories"
	"github.com/dailyreadnest/backend/internal/social"
)

// FriendHandler implements the friend-request and friendship endpoints.
type FriendHandler struct {
	Users  UserStore
	Social SocialStore
}

// Send handles POST /api/v1/friends/requests/{userID} requests.
func (h FriendHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.UserIDFromContext(ctx)
	targetID := chi.URLParam(r, "userID")

	if _, err := h.Users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "user not found")
			return
		}
		logging.FromContext(ctx).Error("target lookup failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to send friend request")
		return
	}

	if err := h.Social.SendRequest(ctx, actorID, targetID); err != nil {
		switch {
		case errors.Is(err, social.ErrAlreadyRelated):
			respondError(ctx, w, http.StatusBadRequest, "a request or friendship already exists")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "user not found")
		default:
			logging.FromContext(ctx).Error("friend request failed", "error", err, "targetId", targetID)
			respondError(ctx, w, http.StatusInternalServerError, "failed to send friend request")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "request sent"})
}

// Accept handles POST /api/v1/friends/requests/{userID}/accept requests.
// The path parameter names the user whose pending request is accepted.
func (h FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.UserIDFromContext(ctx)
	requesterID := chi.URLParam(r, "userID")

	if err := h.Social.AcceptRequest(ctx, actorID, requesterID); err != nil {
		switch {
		case errors.Is(err, social.ErrNoSuchRequest):
			respondError(ctx, w, http.StatusBadRequest, "no pending request from that user")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "user not found")
		default:
			logging.FromContext(ctx).Error("accept request failed", "error", err, "requesterId", requesterID)
			respondError(ctx, w, http.StatusInternalServerError, "failed to accept friend request")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend added"})
}

// Remove handles DELETE /api/v1/friends/{userID} requests.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.UserIDFromContext(ctx)
	friendID := chi.URLParam(r, "userID")

	if err := h.Social.RemoveFriend(ctx, actorID, friendID); err != nil {
		switch {
		case errors.Is(err, social.ErrNotFriends):
			respondError(ctx, w, http.StatusBadRequest, "you are not friends with that user")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "user not found")
		default:
			logging.FromContext(ctx).Error("remove friend failed", "error", err, "friendId", friendID)
			respondError(ctx, w, http.StatusInternalServerError, "failed to remove friend")
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "friend removed"})
}

// List handles GET /api/v1/friends requests.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	friends, err := h.Social.ListFriends(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("friend listing failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list friends")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]profileCard{"friends": newProfileCards(friends)})
}

// Requests handles GET /api/v1/friends/requests requests: pending
// requests the caller has sent and received.
func (h FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqs, err := h.Social.ListRequests(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("request listing failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list friend requests")
		return
	}

	respondJSON(ctx, w, http.StatusOK, friendRequestsResponse{
		Sent:     newProfileCards(reqs.Sent),
		Received: newProfileCards(reqs.Received),
	})
}

type friendRequestsResponse struct {
	Sent     []profileCard `json:"sent"`
	Received []profileCard `json:"received"`
}
