package handlers

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/media"
	"github.com/pH-1491/Video-Backend/internal/models"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, url string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (models.User, error)
	RecordWatch(ctx context.Context, userID, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	FindByIDWithOwner(ctx context.Context, id string) (models.VideoWithOwner, error)
	List(ctx context.Context, filter models.VideoFilter, page models.Page) (models.VideoPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	SetPublished(ctx context.Context, id string, published bool) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, page models.Page) (models.CommentPage, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.TweetWithOwner, error)
	UpdateContent(ctx context.Context, id, content string) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	Detail(ctx context.Context, id string) (models.PlaylistDetail, error)
	ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, id, name, description string) (models.Playlist, error)
	AddVideo(ctx context.Context, id, videoID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID string) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
}

// EngagementService implements like and subscription toggles and channel
// aggregates.
type EngagementService interface {
	ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error)
	ToggleSubscription(ctx context.Context, channelID, subscriberID string) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
	ChannelSubscribers(ctx context.Context, channelID string) ([]models.Profile, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Profile, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}

// StatsProvider produces dashboard statistics for a channel.
type StatsProvider interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

// SessionManager issues, refreshes and revokes authentication tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.AuthTokens, error)
	Revoke(ctx context.Context, refreshToken string)
	RevokeAll(ctx context.Context, userID string)
}

// TokenVerifier validates bearer access tokens for the auth middleware.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// MediaUploader pushes staged upload files into durable storage.
type MediaUploader interface {
	UploadImage(ctx context.Context, localPath, folder string) (string, error)
	UploadVideo(ctx context.Context, localPath string) (media.Asset, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users      UserStore
	Videos     VideoStore
	Comments   CommentStore
	Tweets     TweetStore
	Playlists  PlaylistStore
	Engagement EngagementService
	Stats      StatsProvider
	Sessions   SessionManager
	Verifier   TokenVerifier
	Media      MediaUploader
	UploadDir  string

	CredentialLimiter RateLimiter
}
