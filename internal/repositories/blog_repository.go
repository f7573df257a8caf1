package repositories

import (
	"context"

	"github.com/dailyreadnest/backend/internal/blogs"
	"github.com/dailyreadnest/backend/internal/models"
)

// BlogRepository defines data access for blog collections and their comments.
type BlogRepository interface {
	Add(ctx context.Context, ownerID, content string) ([]models.Blog, error)
	Update(ctx context.Context, ownerID, blogID, content string) error
	Delete(ctx context.Context, ownerID, blogID string) error
	List(ctx context.Context, ownerID string, page, pageSize int) (blogs.Page, error)
	AddComment(ctx context.Context, ownerID, blogID, authorID, text string) (models.Comment, error)
}
