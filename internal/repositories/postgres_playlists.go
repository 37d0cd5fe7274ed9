package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/models"
)

const playlistColumns = `id, name, description, owner_id, video_ids, created_at, updated_at`

// PostgresPlaylistRepository provides PostgreSQL-backed persistence for playlists.
type PostgresPlaylistRepository struct {
	pool db.Pool
}

// NewPostgresPlaylistRepository constructs a playlist repository backed by PostgreSQL.
func NewPostgresPlaylistRepository(pool db.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

// Create stores a new, empty playlist.
func (r *PostgresPlaylistRepository) Create(ctx context.Context, playlist models.Playlist) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	ids := playlist.VideoIDs
	if ids == nil {
		ids = []string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO playlists (id, name, description, owner_id, video_ids, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, playlist.ID, playlist.Name, playlist.Description, playlist.OwnerID, ids, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return translatePgError(err, "insert playlist")
	}

	return nil
}

// FindByID fetches a playlist by primary key.
func (r *PostgresPlaylistRepository) FindByID(ctx context.Context, id string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id)
	return scanPlaylist(row, "select playlist by id")
}

// Detail resolves a playlist together with the owner projection and the
// referenced videos in list order, skipping ids whose video was deleted.
func (r *PostgresPlaylistRepository) Detail(ctx context.Context, id string) (models.PlaylistDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.name, p.description, p.owner_id, p.video_ids, p.created_at, p.updated_at,
               u.id, u.full_name, u.username, u.avatar_url
        FROM playlists p
        JOIN users u ON u.id = p.owner_id
        WHERE p.id = $1
    `, id)

	var detail models.PlaylistDetail
	err = row.Scan(
		&detail.ID, &detail.Name, &detail.Description, &detail.OwnerID, &detail.VideoIDs,
		&detail.CreatedAt, &detail.UpdatedAt,
		&detail.Owner.ID, &detail.Owner.FullName, &detail.Owner.Username, &detail.Owner.Avatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PlaylistDetail{}, ErrNotFound
		}
		return models.PlaylistDetail{}, fmt.Errorf("select playlist detail: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT `+prefixedVideoColumns("v")+`
        FROM playlists p
        CROSS JOIN LATERAL unnest(p.video_ids) WITH ORDINALITY AS entry(video_id, pos)
        JOIN videos v ON v.id = entry.video_id
        WHERE p.id = $1
        ORDER BY entry.pos
    `, id)
	if err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("query playlist videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		video, err := scanVideo(rows, "scan playlist video")
		if err != nil {
			return models.PlaylistDetail{}, err
		}
		detail.Videos = append(detail.Videos, video)
	}
	if err := rows.Err(); err != nil {
		return models.PlaylistDetail{}, fmt.Errorf("iterate playlist videos: %w", err)
	}

	return detail, nil
}

// ListForUser returns the playlists a user owns, newest first.
func (r *PostgresPlaylistRepository) ListForUser(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+playlistColumns+`
        FROM playlists
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows, "scan playlist")
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, nil
}

// Update changes name and description, returning the updated record.
func (r *PostgresPlaylistRepository) Update(ctx context.Context, id, name, description string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE playlists SET name = $2, description = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING `+playlistColumns, id, name, description)
	return scanPlaylist(row, "update playlist")
}

// AddVideo appends the video id unless it is already present.
func (r *PostgresPlaylistRepository) AddVideo(ctx context.Context, id, videoID string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE playlists
        SET video_ids = array_append(video_ids, $2), updated_at = NOW()
        WHERE id = $1 AND NOT (video_ids @> ARRAY[$2])
        RETURNING `+playlistColumns, id, videoID)

	playlist, err := scanPlaylist(row, "add playlist video")
	if err == nil {
		return playlist, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Playlist{}, err
	}

	// No row updated: missing playlist or duplicate entry.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return models.Playlist{}, findErr
	}
	return models.Playlist{}, ErrConflict
}

// RemoveVideo drops the video id from the playlist.
func (r *PostgresPlaylistRepository) RemoveVideo(ctx context.Context, id, videoID string) (models.Playlist, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE playlists
        SET video_ids = array_remove(video_ids, $2), updated_at = NOW()
        WHERE id = $1
        RETURNING `+playlistColumns, id, videoID)
	return scanPlaylist(row, "remove playlist video")
}

// Delete removes the playlist.
func (r *PostgresPlaylistRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanPlaylist(row pgx.Row, op string) (models.Playlist, error) {
	var playlist models.Playlist
	err := row.Scan(
		&playlist.ID, &playlist.Name, &playlist.Description, &playlist.OwnerID,
		&playlist.VideoIDs, &playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Playlist{}, ErrNotFound
		}
		return models.Playlist{}, fmt.Errorf("%s: %w", op, err)
	}
	return playlist, nil
}

var _ PlaylistRepository = (*PostgresPlaylistRepository)(nil)
