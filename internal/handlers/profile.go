package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dailyreadnest/backend/internal/logging"
	"github.com/dailyreadnest/backend/internal/middleware"
	"github.com/dailyreadnest/backend/internal/models"
	"github.com/dailyreadnest/backend/internal/repositories"
)

const maxImageUploadBytes = 5 << 20

// ProfileHandler implements the profile and user-directory endpoints.
type ProfileHandler struct {
	Users     UserStore
	Directory UserDirectory
	Images    ImageStorage
	NowFunc   func() time.Time
}

// Me handles GET /api/v1/users/me requests.
func (h ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "user not found")
			return
		}
		logging.FromContext(ctx).Error("profile lookup failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondJSON(ctx, w, http.StatusOK, newUserResponse(user))
}

// Update handles PUT /api/v1/users/me requests. Empty fields keep their
// current values.
func (h ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) > models.MaxNameLength {
		respondError(ctx, w, http.StatusBadRequest, "name must be at most 30 characters")
		return
	}
	if len(req.Bio) > models.MaxBioLength {
		respondError(ctx, w, http.StatusBadRequest, "bio must be at most 100 characters")
		return
	}

	user, err := h.Users.FindByID(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("profile lookup failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Photo != "" {
		user.Photo = req.Photo
	}
	if req.ProfileBackground != "" {
		user.ProfileBackground = req.ProfileBackground
	}
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		logger.Error("profile update failed", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	if h.Directory != nil {
		h.Directory.Invalidate()
	}

	respondJSON(ctx, w, http.StatusOK, newUserResponse(user))
}

// List handles GET /api/v1/users requests: every user except the caller.
func (h ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.Directory.ListOthers(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("user directory listing failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list users")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]profileCard{"users": newProfileCards(profiles)})
}

// UploadPhoto handles POST /api/v1/users/me/photo requests.
func (h ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "avatars", func(user *models.User, url string) {
		user.Photo = url
	})
}

// UploadBackground handles POST /api/v1/users/me/background requests.
func (h ProfileHandler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "backgrounds", func(user *models.User, url string) {
		user.ProfileBackground = url
	})
}

func (h ProfileHandler) uploadImage(w http.ResponseWriter, r *http.Request, prefix string, assign func(*models.User, string)) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Images == nil {
		respondError(ctx, w, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		respondError(ctx, w, http.StatusBadRequest, "unsupported image type")
		return
	}

	user, err := h.Users.FindByID(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("profile lookup failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	url, err := h.Images.Save(ctx, key, file)
	if err != nil {
		logger.Error("image upload failed", "error", err, "key", key)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store image")
		return
	}

	assign(&user, url)
	user.UpdatedAt = h.now()

	if err := h.Users.Update(ctx, user); err != nil {
		logger.Error("profile update failed", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	if h.Directory != nil {
		h.Directory.Invalidate()
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"url": url})
}

type updateProfileRequest struct {
	Name              string `json:"name"`
	Bio               string `json:"bio"`
	Photo             string `json:"photo"`
	ProfileBackground string `json:"profileBackground"`
}

func (h ProfileHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
