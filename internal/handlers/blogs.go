package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dailyreadnest/backend/internal/blogs"
	"github.com/dailyreadnest/backend/internal/logging"
	"github.com/dailyreadnest/backend/internal/middleware"
	"github.com/dailyreadnest/backend/internal/repositories"
	"github.com/dailyreadnest/backend/internal/social"
)

const maxBlogContentLength = 5000

// BlogHandler implements the blog and comment endpoints.
type BlogHandler struct {
	Social SocialStore
	Blogs  BlogStore
}

// ListOwn handles GET /api/v1/blogs requests: the caller's own collection.
func (h BlogHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, middleware.UserIDFromContext(r.Context()))
}

// ListUser handles GET /api/v1/users/{userID}/blogs requests. Blogs are
// visible to their owner and to the owner's friends.
func (h BlogHandler) ListUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.UserIDFromContext(ctx)
	ownerID := chi.URLParam(r, "userID")

	// An unknown owner and a non-friend owner answer identically, so callers
	// cannot probe which user ids exist.
	if ownerID != actorID && !h.canView(w, r, actorID, ownerID) {
		return
	}

	h.listFor(w, r, ownerID)
}

func (h BlogHandler) listFor(w http.ResponseWriter, r *http.Request, ownerID string) {
	ctx := r.Context()

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "limit", blogs.DefaultPageSize)

	result, err := h.Blogs.List(ctx, ownerID, page, pageSize)
	if err != nil {
		logging.FromContext(ctx).Error("blog listing failed", "error", err, "ownerId", ownerID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load blogs")
		return
	}

	respondJSON(ctx, w, http.StatusOK, blogPageResponse{
		Blogs:      newBlogResponses(result.Blogs),
		TotalBlogs: result.TotalBlogs,
	})
}

// Create handles POST /api/v1/blogs requests. The response carries the
// caller's full collection so clients can re-render without a second fetch.
func (h BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	content, ok := decodeBlogContent(ctx, w, r)
	if !ok {
		return
	}

	collection, err := h.Blogs.Add(ctx, middleware.UserIDFromContext(ctx), content)
	if err != nil {
		switch {
		case errors.Is(err, blogs.ErrLimitReached):
			respondError(ctx, w, http.StatusBadRequest, "blog limit reached: delete one before adding another")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "user not found")
		default:
			logger.Error("blog create failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to create blog")
		}
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string][]blogResponse{"blogs": newBlogResponses(collection)})
}

// Update handles PUT /api/v1/blogs/{blogID} requests.
func (h BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	content, ok := decodeBlogContent(ctx, w, r)
	if !ok {
		return
	}

	blogID := chi.URLParam(r, "blogID")
	if err := h.Blogs.Update(ctx, middleware.UserIDFromContext(ctx), blogID, content); err != nil {
		if errors.Is(err, blogs.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "blog not found")
			return
		}
		logging.FromContext(ctx).Error("blog update failed", "error", err, "blogId", blogID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update blog")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "blog updated"})
}

// Delete handles DELETE /api/v1/blogs/{blogID} requests.
func (h BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	blogID := chi.URLParam(r, "blogID")
	if err := h.Blogs.Delete(ctx, middleware.UserIDFromContext(ctx), blogID); err != nil {
		if errors.Is(err, blogs.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "blog not found")
			return
		}
		logging.FromContext(ctx).Error("blog delete failed", "error", err, "blogId", blogID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete blog")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "blog deleted"})
}

// AddComment handles POST /api/v1/users/{userID}/blogs/{blogID}/comments
// requests. Access is checked before blog existence so non-friends cannot
// probe which blog ids exist.
func (h BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.UserIDFromContext(ctx)
	ownerID := chi.URLParam(r, "userID")
	blogID := chi.URLParam(r, "blogID")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		respondError(ctx, w, http.StatusBadRequest, "comment text is required")
		return
	}

	if ownerID != actorID && !h.canView(w, r, actorID, ownerID) {
		return
	}

	comment, err := h.Blogs.AddComment(ctx, ownerID, blogID, actorID, req.Text)
	if err != nil {
		if errors.Is(err, blogs.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "blog not found")
			return
		}
		logging.FromContext(ctx).Error("comment create failed", "error", err, "blogId", blogID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to add comment")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, commentResponse{
		ID:         comment.ID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Text:       comment.Text,
		CreatedAt:  comment.CreatedAt,
	})
}

// canView writes the error response and returns false when actor may not
// view owner's blogs.
func (h BlogHandler) canView(w http.ResponseWriter, r *http.Request, actorID, ownerID string) bool {
	ctx := r.Context()

	state, err := h.Social.Relationship(ctx, actorID, ownerID)
	if err != nil {
		logging.FromContext(ctx).Error("relationship lookup failed", "error", err, "ownerId", ownerID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load blogs")
		return false
	}
	if !social.CanView(actorID, ownerID, state) {
		respondError(ctx, w, http.StatusForbidden, "blogs are only visible to friends")
		return false
	}
	return true
}

func decodeBlogContent(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(ctx, w, http.StatusBadRequest, "blog content is required")
		return "", false
	}
	if len(req.Content) > maxBlogContentLength {
		respondError(ctx, w, http.StatusBadRequest, "blog content is too long")
		return "", false
	}
	return req.Content, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

type blogRequest struct {
	Content string `json:"content"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type blogPageResponse struct {
	Blogs      []blogResponse `json:"blogs"`
	TotalBlogs int            `json:"totalBlogs"`
}
