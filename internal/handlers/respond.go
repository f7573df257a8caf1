package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dailyreadnest/backend/internal/logging"
	"github.com/dailyreadnest/backend/internal/models"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

type userResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Bio               string    `json:"bio"`
	Photo             string    `json:"photo"`
	ProfileBackground string    `json:"profileBackground"`
	CreatedAt         time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Bio:               user.Bio,
		Photo:             user.Photo,
		ProfileBackground: user.ProfileBackground,
		CreatedAt:         user.CreatedAt,
	}
}

type profileCard struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Bio               string `json:"bio"`
	Photo             string `json:"photo"`
	ProfileBackground string `json:"profileBackground"`
}

func newProfileCards(profiles []models.PublicProfile) []profileCard {
	cards := make([]profileCard, 0, len(profiles))
	for _, p := range profiles {
		cards = append(cards, profileCard(p))
	}
	return cards
}

type commentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

type blogResponse struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
}

func newBlogResponses(collection []models.Blog) []blogResponse {
	out := make([]blogResponse, 0, len(collection))
	for _, blog := range collection {
		comments := make([]commentResponse, 0, len(blog.Comments))
		for _, c := range blog.Comments {
			comments = append(comments, commentResponse{
				ID:         c.ID,
				AuthorID:   c.AuthorID,
				AuthorName: c.AuthorName,
				Text:       c.Text,
				CreatedAt:  c.CreatedAt,
			})
		}
		out = append(out, blogResponse{
			ID:        blog.ID,
			Content:   blog.Content,
			Comments:  comments,
			CreatedAt: blog.CreatedAt,
		})
	}
	return out
}
