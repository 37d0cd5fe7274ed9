package repositories

import (
	"context"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// EngagementRepository persists the like and subscription edges and answers
// the derived-count queries built on them. Toggle operations are atomic on
// the unique (actor, target) pair so concurrent identical requests cannot
// duplicate an edge.
type EngagementRepository interface {
	// ToggleLike creates the like when absent and deletes it when present,
	// reporting the resulting state.
	ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (liked bool, err error)
	// ToggleSubscription behaves like ToggleLike for channel subscriptions.
	ToggleSubscription(ctx context.Context, channelID, subscriberID string) (subscribed bool, err error)

	LikedVideos(ctx context.Context, userID string) ([]models.VideoWithOwner, error)
	ChannelSubscribers(ctx context.Context, channelID string) ([]models.Profile, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Profile, error)

	// ChannelStats derives the dashboard counters; LikeTotal joins likes to
	// videos so only likes on the channel's own videos are counted.
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
	// ChannelProfile resolves a channel by username together with derived
	// subscription counts and whether viewerID subscribes to it.
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}
