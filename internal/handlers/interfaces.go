package handlers

import (
	"context"
	"io"

	"github.com/dailyreadnest/backend/internal/blogs"
	"github.com/dailyreadnest/backend/internal/models"
	"github.com/dailyreadnest/backend/internal/social"
)

// UserStore captures the persistence operations required by the account handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// UserDirectory lists the public cards of other users for the find-friends view.
type UserDirectory interface {
	ListOthers(ctx context.Context, excludeID string) ([]models.PublicProfile, error)
	Invalidate()
}

// SessionManager issues and refreshes authentication tokens for users.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// SocialStore captures operations required by the friend handlers.
type SocialStore interface {
	SendRequest(ctx context.Context, from, to string) error
	AcceptRequest(ctx context.Context, accepter, requester string) error
	RemoveFriend(ctx context.Context, actor, other string) error
	Relationship(ctx context.Context, actor, other string) (social.Relationship, error)
	ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error)
	ListRequests(ctx context.Context, userID string) (models.FriendRequests, error)
}

// BlogStore captures persistence for blog collections and comments.
type BlogStore interface {
	Add(ctx context.Context, ownerID, content string) ([]models.Blog, error)
	Update(ctx context.Context, ownerID, blogID, content string) error
	Delete(ctx context.Context, ownerID, blogID string) error
	List(ctx context.Context, ownerID string, page, pageSize int) (blogs.Page, error)
	AddComment(ctx context.Context, ownerID, blogID, authorID, text string) (models.Comment, error)
}

// ImageStorage persists uploaded profile images and returns their public URL.
type ImageStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
