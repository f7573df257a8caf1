package repositories

import (
	"context"

	"github.com/dailyreadnest/backend/internal/models"
	"github.com/dailyreadnest/backend/internal/social"
)

// SocialRepository defines data access for the friend-relationship graph.
// The mutating operations apply the social package's transition rules
// atomically: a reader never observes one side of a friendship without the
// other, or a friendship coexisting with its originating request.
type SocialRepository interface {
	SendRequest(ctx context.Context, from, to string) error
	AcceptRequest(ctx context.Context, accepter, requester string) error
	RemoveFriend(ctx context.Context, actor, other string) error
	Relationship(ctx context.Context, actor, other string) (social.Relationship, error)
	ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error)
	ListRequests(ctx context.Context, userID string) (models.FriendRequests, error)
}
