package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// CommentRepository exposes data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, page models.Page) (models.CommentPage, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	// Delete removes the comment together with its likes.
	Delete(ctx context.Context, id string) error
}
