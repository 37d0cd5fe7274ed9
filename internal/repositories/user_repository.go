package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	// FindByLogin resolves a user by email or username.
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, url string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (models.User, error)

	// RecordWatch moves the video to the front of the user's watch history,
	// removing any earlier occurrence of the same id.
	RecordWatch(ctx context.Context, userID, videoID string) error
	// WatchHistory resolves the history ids into videos with owner
	// projections, preserving order and skipping deleted videos.
	WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
}
