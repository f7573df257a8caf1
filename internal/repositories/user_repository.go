package repositories

import (
	"context"

	"github.com/dailyreadnest/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
	ListOthers(ctx context.Context, excludeID string) ([]models.PublicProfile, error)
}
