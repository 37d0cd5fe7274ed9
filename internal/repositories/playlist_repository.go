package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// PlaylistRepository exposes data access for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	// Detail resolves the owner projection and the referenced videos in
	// list order.
	Detail(ctx context.Context, id string) (models.PlaylistDetail, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, id, name, description string) (models.Playlist, error)
	// AddVideo appends the video id; ErrConflict when already present.
	AddVideo(ctx context.Context, id, videoID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID string) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
}
