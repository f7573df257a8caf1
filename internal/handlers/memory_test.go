package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dailyreadnest/backend/internal/blogs"
	"github.com/dailyreadnest/backend/internal/models"
	"github.com/dailyreadnest/backend/internal/repositories"
	"github.com/dailyreadnest/backend/internal/social"
)

type inMemoryUserStore struct {
	users map[string]models.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]models.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *inMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *inMemoryUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *inMemoryUserStore) ListOthers(_ context.Context, excludeID string) ([]models.PublicProfile, error) {
	profiles := make([]models.PublicProfile, 0, len(s.users))
	for _, user := range s.users {
		if user.ID == excludeID {
			continue
		}
		profiles = append(profiles, user.Public())
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// staticDirectory satisfies UserDirectory without caching.
type staticDirectory struct {
	users       *inMemoryUserStore
	invalidated int
}

func (d *staticDirectory) ListOthers(ctx context.Context, excludeID string) ([]models.PublicProfile, error) {
	return d.users.ListOthers(ctx, excludeID)
}

func (d *staticDirectory) Invalidate() { d.invalidated++ }

type pairKey struct{ a, b string }

func orderedPair(a, b string) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

type inMemorySocialStore struct {
	users *inMemoryUserStore
	// requests maps requester -> receiver
	requests map[pairKey][2]string
	friends  map[pairKey]bool
}

func newInMemorySocialStore(users *inMemoryUserStore) *inMemorySocialStore {
	return &inMemorySocialStore{
		users:    users,
		requests: make(map[pairKey][2]string),
		friends:  make(map[pairKey]bool),
	}
}

func (s *inMemorySocialStore) Relationship(_ context.Context, actor, other string) (social.Relationship, error) {
	key := orderedPair(actor, other)
	if s.friends[key] {
		return social.Friends, nil
	}
	if pair, ok := s.requests[key]; ok {
		if pair[0] == actor {
			return social.RequestSent, nil
		}
		return social.RequestReceived, nil
	}
	return social.Strangers, nil
}

func (s *inMemorySocialStore) SendRequest(ctx context.Context, from, to string) error {
	if _, err := s.users.FindByID(ctx, to); err != nil {
		return err
	}
	state, err := s.Relationship(ctx, from, to)
	if err != nil {
		return err
	}
	if from == to {
		return social.ErrAlreadyRelated
	}
	if err := social.CheckSend(state); err != nil {
		return err
	}
	s.requests[orderedPair(from, to)] = [2]string{from, to}
	return nil
}

func (s *inMemorySocialStore) AcceptRequest(ctx context.Context, accepter, requester string) error {
	if _, err := s.users.FindByID(ctx, requester); err != nil {
		return err
	}
	state, err := s.Relationship(ctx, accepter, requester)
	if err != nil {
		return err
	}
	if err := social.CheckAccept(state); err != nil {
		return err
	}
	key := orderedPair(accepter, requester)
	delete(s.requests, key)
	s.friends[key] = true
	return nil
}

func (s *inMemorySocialStore) RemoveFriend(ctx context.Context, actor, other string) error {
	state, err := s.Relationship(ctx, actor, other)
	if err != nil {
		return err
	}
	if err := social.CheckRemove(state); err != nil {
		return err
	}
	delete(s.friends, orderedPair(actor, other))
	return nil
}

func (s *inMemorySocialStore) ListFriends(_ context.Context, userID string) ([]models.PublicProfile, error) {
	var out []models.PublicProfile
	for key, ok := range s.friends {
		if !ok {
			continue
		}
		other := ""
		switch userID {
		case key.a:
			other = key.b
		case key.b:
			other = key.a
		default:
			continue
		}
		if user, found := s.users.users[other]; found {
			out = append(out, user.Public())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *inMemorySocialStore) ListRequests(_ context.Context, userID string) (models.FriendRequests, error) {
	reqs := models.FriendRequests{Sent: []models.PublicProfile{}, Received: []models.PublicProfile{}}
	for _, pair := range s.requests {
		switch userID {
		case pair[0]:
			if user, ok := s.users.users[pair[1]]; ok {
				reqs.Sent = append(reqs.Sent, user.Public())
			}
		case pair[1]:
			if user, ok := s.users.users[pair[0]]; ok {
				reqs.Received = append(reqs.Received, user.Public())
			}
		}
	}
	return reqs, nil
}

type inMemoryBlogStore struct {
	users      *inMemoryUserStore
	collection map[string][]models.Blog
	seq        int
}

func newInMemoryBlogStore(users *inMemoryUserStore) *inMemoryBlogStore {
	return &inMemoryBlogStore{users: users, collection: make(map[string][]models.Blog)}
}

func (s *inMemoryBlogStore) Add(ctx context.Context, ownerID, content string) ([]models.Blog, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	owned := s.collection[ownerID]
	if len(owned) >= blogs.MaxPerUser {
		return nil, blogs.ErrLimitReached
	}
	s.seq++
	owned = append(owned, models.Blog{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Content:   content,
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	})
	s.collection[ownerID] = owned
	return append([]models.Blog(nil), owned...), nil
}

func (s *inMemoryBlogStore) Update(_ context.Context, ownerID, blogID, content string) error {
	owned := s.collection[ownerID]
	for i := range owned {
		if owned[i].ID == blogID {
			owned[i].Content = content
			return nil
		}
	}
	return blogs.ErrNotFound
}

func (s *inMemoryBlogStore) Delete(_ context.Context, ownerID, blogID string) error {
	owned := s.collection[ownerID]
	for i := range owned {
		if owned[i].ID == blogID {
			s.collection[ownerID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return blogs.ErrNotFound
}

func (s *inMemoryBlogStore) List(_ context.Context, ownerID string, page, pageSize int) (blogs.Page, error) {
	owned := s.collection[ownerID]
	start, end := blogs.Window(len(owned), page, pageSize)
	window := append([]models.Blog(nil), owned[start:end]...)
	return blogs.Page{Blogs: window, TotalBlogs: len(owned)}, nil
}

func (s *inMemoryBlogStore) AddComment(ctx context.Context, ownerID, blogID, authorID, text string) (models.Comment, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return models.Comment{}, err
	}
	owned := s.collection[ownerID]
	for i := range owned {
		if owned[i].ID == blogID {
			comment := models.Comment{
				ID:         uuid.NewString(),
				BlogID:     blogID,
				AuthorID:   authorID,
				AuthorName: author.Name,
				Text:       text,
				CreatedAt:  time.Now().UTC(),
			}
			owned[i].Comments = append(owned[i].Comments, comment)
			return comment, nil
		}
	}
	return models.Comment{}, blogs.ErrNotFound
}

// staticVerifier resolves pre-issued tokens to user ids.
type staticVerifier struct {
	tokens map[string]string
}

func (v staticVerifier) Verify(token string) (string, error) {
	userID, ok := v.tokens[token]
	if !ok {
		return "", fmt.Errorf("unknown token %q", token)
	}
	return userID, nil
}
