package models

import "time"

// Field length limits enforced at registration and profile edits.
const (
	MaxNameLength = 30
	MaxBioLength  = 100
)

// User represents an account within the DailyReadNest platform.
type User struct {
	ID                string
	Name              string
	Email             string
	Password          string
	Bio               string
	Photo             string
	ProfileBackground string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicProfile carries the fields of a user that other users may see.
type PublicProfile struct {
	ID                string
	Name              string
	Bio               string
	Photo             string
	ProfileBackground string
}

// Public strips the private fields from a user record.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:                u.ID,
		Name:              u.Name,
		Bio:               u.Bio,
		Photo:             u.Photo,
		ProfileBackground: u.ProfileBackground,
	}
}

// Blog is a single markdown post in a user's capped collection.
type Blog struct {
	ID        string
	OwnerID   string
	Content   string
	Comments  []Comment
	CreatedAt time.Time
}

// Comment is appended to a blog by the owner or one of their friends.
type Comment struct {
	ID         string
	BlogID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// FriendRequests groups the pending requests involving a user.
type FriendRequests struct {
	Sent     []PublicProfile
	Received []PublicProfile
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
