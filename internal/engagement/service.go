package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// ErrSelfSubscription indicates a user attempted to subscribe to their own channel.
var ErrSelfSubscription = errors.New("cannot subscribe to own channel")

// VideoFinder reports whether a video exists.
type VideoFinder interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
}

// CommentFinder reports whether a comment exists.
type CommentFinder interface {
	FindByID(ctx context.Context, id string) (models.Comment, error)
}

// TweetFinder reports whether a tweet exists.
type TweetFinder interface {
	FindByID(ctx context.Context, id string) (models.Tweet, error)
}

// UserFinder reports whether a user exists.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Service implements like and subscription toggles and channel statistics on
// top of the engagement repository. Targets are verified to exist before any
// toggle is applied.
type Service struct {
	repo     repositories.EngagementRepository
	users    UserFinder
	videos   VideoFinder
	comments CommentFinder
	tweets   TweetFinder
}

// NewService wires the engagement repository with the finders used for
// target existence checks.
func NewService(repo repositories.EngagementRepository, users UserFinder, videos VideoFinder, comments CommentFinder, tweets TweetFinder) *Service {
	return &Service{repo: repo, users: users, videos: videos, comments: comments, tweets: tweets}
}

// ToggleLike flips the caller's like on the target, returning the resulting
// state. Unknown targets surface repositories.ErrNotFound.
func (s *Service) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	if err := s.checkTarget(ctx, target, targetID); err != nil {
		return false, err
	}

	liked, err := s.repo.ToggleLike(ctx, target, targetID, userID)
	if err != nil {
		return false, fmt.Errorf("toggle %s like: %w", target, err)
	}
	return liked, nil
}

// ToggleSubscription flips the caller's subscription to the channel,
// returning the resulting state.
func (s *Service) ToggleSubscription(ctx context.Context, channelID, subscriberID string) (bool, error) {
	if channelID == subscriberID {
		return false, ErrSelfSubscription
	}
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return false, err
	}

	subscribed, err := s.repo.ToggleSubscription(ctx, channelID, subscriberID)
	if err != nil {
		return false, fmt.Errorf("toggle subscription: %w", err)
	}
	return subscribed, nil
}

// LikedVideos lists the videos the user has liked, most recent like first.
func (s *Service) LikedVideos(ctx context.Context, userID string) ([]models.VideoWithOwner, error) {
	return s.repo.LikedVideos(ctx, userID)
}

// ChannelSubscribers lists the subscribers of the channel.
func (s *Service) ChannelSubscribers(ctx context.Context, channelID string) ([]models.Profile, error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.repo.ChannelSubscribers(ctx, channelID)
}

// SubscribedChannels lists the channels the user subscribes to.
func (s *Service) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Profile, error) {
	if _, err := s.users.FindByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	return s.repo.SubscribedChannels(ctx, subscriberID)
}

// ChannelStats aggregates subscriber, video, view and like totals for the channel.
func (s *Service) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return models.ChannelStats{}, err
	}
	return s.repo.ChannelStats(ctx, channelID)
}

// ChannelProfile resolves a channel page by username from the viewer's
// perspective.
func (s *Service) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	return s.repo.ChannelProfile(ctx, username, viewerID)
}

func (s *Service) checkTarget(ctx context.Context, target models.LikeTarget, targetID string) error {
	switch target {
	case models.LikeTargetVideo:
		_, err := s.videos.FindByID(ctx, targetID)
		return err
	case models.LikeTargetComment:
		_, err := s.comments.FindByID(ctx, targetID)
		return err
	case models.LikeTargetTweet:
		_, err := s.tweets.FindByID(ctx, targetID)
		return err
	default:
		return fmt.Errorf("unknown like target %q", target)
	}
}
