package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/models"
)

// PostgresEngagementRepository persists likes and subscriptions and computes
// the derived statistics built on them.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed
// by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// ToggleLike flips the like edge for (user, target). The insert is keyed on
// the unique (target_kind, target_id, liked_by) index, so two concurrent
// toggles cannot create a duplicate edge; whichever call loses the insert
// performs the delete.
func (r *PostgresEngagementRepository) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO likes (id, target_kind, target_id, liked_by, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (target_kind, target_id, liked_by) DO NOTHING
    `, uuid.NewString(), string(target), targetID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	if _, err := conn.Exec(ctx, `
        DELETE FROM likes WHERE target_kind = $1 AND target_id = $2 AND liked_by = $3
    `, string(target), targetID, userID); err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return false, nil
}

// ToggleSubscription flips the subscription edge for (subscriber, channel)
// with the same atomic insert-or-delete shape as ToggleLike.
func (r *PostgresEngagementRepository) ToggleSubscription(ctx context.Context, channelID, subscriberID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        INSERT INTO subscriptions (id, channel_id, subscriber_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (channel_id, subscriber_id) DO NOTHING
    `, uuid.NewString(), channelID, subscriberID, time.Now().UTC())
	if err != nil {
		return false, translatePgError(err, "insert subscription")
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	if _, err := conn.Exec(ctx, `
        DELETE FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2
    `, channelID, subscriberID); err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}

	return false, nil
}

// LikedVideos lists the videos a user has liked, most recent like first.
func (r *PostgresEngagementRepository) LikedVideos(ctx context.Context, userID string) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+prefixedVideoColumns("v")+`, u.id, u.full_name, u.username, u.avatar_url
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.target_kind = 'video' AND l.liked_by = $1
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	return collectVideosWithOwner(rows, "liked videos")
}

// ChannelSubscribers lists the users subscribed to a channel.
func (r *PostgresEngagementRepository) ChannelSubscribers(ctx context.Context, channelID string) ([]models.Profile, error) {
	return r.profileQuery(ctx, `
        SELECT u.id, u.full_name, u.username, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID, "channel subscribers")
}

// SubscribedChannels lists the channels a user subscribes to.
func (r *PostgresEngagementRepository) SubscribedChannels(ctx context.Context, subscriberID string) ([]models.Profile, error) {
	return r.profileQuery(ctx, `
        SELECT u.id, u.full_name, u.username, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID, "subscribed channels")
}

// ChannelStats derives the dashboard counters. The like total joins likes to
// the video table first so only likes on videos the channel owns are
// counted, no matter whose video the like record points at.
func (r *PostgresEngagementRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stats models.ChannelStats

	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1
    `, channelID).Scan(&stats.SubscriberCount); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count subscribers: %w", err)
	}

	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1
    `, channelID).Scan(&stats.VideoCount, &stats.ViewTotal); err != nil {
		return models.ChannelStats{}, fmt.Errorf("aggregate video stats: %w", err)
	}

	if err := conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON l.target_kind = 'video' AND l.target_id = v.id
        WHERE v.owner_id = $1
    `, channelID).Scan(&stats.LikeTotal); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count channel likes: %w", err)
	}

	return stats, nil
}

// ChannelProfile resolves a channel by username with its derived counts and
// the viewer's subscription state. An empty viewerID reports IsSubscribed
// false.
func (r *PostgresEngagementRepository) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT u.id, u.full_name, u.username, u.avatar_url, u.email, u.cover_image_url,
               (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
               (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
               EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
        FROM users u
        WHERE lower(u.username) = lower($1)
    `, username, viewerID)

	var profile models.ChannelProfile
	err = row.Scan(
		&profile.ID, &profile.FullName, &profile.Username, &profile.Avatar,
		&profile.Email, &profile.CoverImage,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	return profile, nil
}

func (r *PostgresEngagementRepository) profileQuery(ctx context.Context, query, arg, op string) ([]models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", op, err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Username, &p.Avatar); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", op, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}

	return profiles, nil
}

var _ EngagementRepository = (*PostgresEngagementRepository)(nil)
