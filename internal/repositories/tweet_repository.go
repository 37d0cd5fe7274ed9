package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// TweetRepository exposes data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.TweetWithOwner, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	// Delete removes the tweet together with its likes.
	Delete(ctx context.Context, id string) error
}
