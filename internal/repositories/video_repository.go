package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// VideoRepository exposes data access for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	FindByIDWithOwner(ctx context.Context, id string) (models.VideoWithOwner, error)
	// List applies the filter to both the item query and the total count,
	// but sorting and pagination only to the items.
	List(ctx context.Context, filter models.VideoFilter, page models.Page) (models.VideoPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	SetPublished(ctx context.Context, id string, published bool) error
	IncrementViews(ctx context.Context, id string) error
	// Delete removes the video along with its likes, comments and comment
	// likes in one transaction.
	Delete(ctx context.Context, id string) error
}
