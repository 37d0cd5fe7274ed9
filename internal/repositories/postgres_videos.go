package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/models"
)

func prefixedVideoColumns(alias string) string {
	cols := []string{"id", "title", "description", "video_url", "thumbnail_url", "duration", "views", "is_published", "owner_id", "created_at", "updated_at"}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// videoSortColumns whitelists client sort fields against real columns.
var videoSortColumns = map[string]string{
	models.VideoSortCreatedAt: "v.created_at",
	models.VideoSortTitle:     "v.title",
	models.VideoSortDuration:  "v.duration",
	models.VideoSortViews:     "v.views",
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, title, description, video_url, thumbnail_url, duration, views, is_published, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.Title, video.Description, video.VideoURL, video.Thumbnail, video.Duration, video.Views, video.IsPublished, video.OwnerID, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return translatePgError(err, "insert video")
	}

	return nil
}

// FindByID fetches a video by primary key.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+prefixedVideoColumns("v")+` FROM videos v WHERE v.id = $1`, id)
	return scanVideo(row, "select video by id")
}

// FindByIDWithOwner fetches a video joined with its owner's projection.
func (r *PostgresVideoRepository) FindByIDWithOwner(ctx context.Context, id string) (models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoWithOwner{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+prefixedVideoColumns("v")+`, u.id, u.full_name, u.username, u.avatar_url
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        WHERE v.id = $1
    `, id)

	var item models.VideoWithOwner
	err = row.Scan(
		&item.ID, &item.Title, &item.Description, &item.VideoURL, &item.Thumbnail,
		&item.Duration, &item.Views, &item.IsPublished, &item.OwnerID,
		&item.CreatedAt, &item.UpdatedAt,
		&item.Owner.ID, &item.Owner.FullName, &item.Owner.Username, &item.Owner.Avatar,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoWithOwner{}, ErrNotFound
		}
		return models.VideoWithOwner{}, fmt.Errorf("select video with owner: %w", err)
	}

	return item, nil
}

// List pages through videos under the filter. The count query reuses the
// WHERE clause but never the ORDER BY / LIMIT / OFFSET.
func (r *PostgresVideoRepository) List(ctx context.Context, filter models.VideoFilter, page models.Page) (models.VideoPage, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoPage{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where, args := buildVideoFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM videos v` + where
	if err := conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return models.VideoPage{}, fmt.Errorf("count videos: %w", err)
	}

	sortColumn, ok := videoSortColumns[filter.SortBy]
	if !ok {
		sortColumn = videoSortColumns[models.VideoSortCreatedAt]
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	args = append(args, page.Size, page.Offset())
	itemQuery := fmt.Sprintf(`
        SELECT `+prefixedVideoColumns("v")+`, u.id, u.full_name, u.username, u.avatar_url
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d
    `, where, sortColumn, direction, len(args)-1, len(args))

	rows, err := conn.Query(ctx, itemQuery, args...)
	if err != nil {
		return models.VideoPage{}, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	items, err := collectVideosWithOwner(rows, "video listing")
	if err != nil {
		return models.VideoPage{}, err
	}

	return models.VideoPage{
		Items:      items,
		TotalCount: total,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
	}, nil
}

// ListByOwner returns every video a channel owns, newest first.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+prefixedVideoColumns("v")+`
        FROM videos v
        WHERE v.owner_id = $1
        ORDER BY v.created_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query videos by owner: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows, "scan video")
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos by owner: %w", err)
	}

	return videos, nil
}

// Update modifies the mutable metadata of an existing video.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, thumbnail_url = $4, updated_at = NOW()
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.Thumbnail)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetPublished flips the publish flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_published = $2, updated_at = NOW() WHERE id = $1
    `, id, published)
	if err != nil {
		return fmt.Errorf("update publish flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete hard-deletes a video and the engagement records hanging off it.
// Likes reference their target without a foreign key, so the cascade is done
// here inside one transaction.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin video delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes
        WHERE (target_kind = 'video' AND target_id = $1)
           OR (target_kind = 'comment' AND target_id IN (SELECT id FROM comments WHERE video_id = $1))
    `, id); err != nil {
		return fmt.Errorf("delete video likes: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, id); err != nil {
		return fmt.Errorf("delete video comments: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        UPDATE playlists SET video_ids = array_remove(video_ids, $1) WHERE video_ids @> ARRAY[$1]
    `, id); err != nil {
		return fmt.Errorf("remove video from playlists: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit video delete: %w", err)
	}

	return nil
}

func scanVideo(row pgx.Row, op string) (models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID, &video.Title, &video.Description, &video.VideoURL, &video.Thumbnail,
		&video.Duration, &video.Views, &video.IsPublished, &video.OwnerID,
		&video.CreatedAt, &video.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}
	return video, nil
}

func collectVideosWithOwner(rows pgx.Rows, op string) ([]models.VideoWithOwner, error) {
	var items []models.VideoWithOwner
	for rows.Next() {
		var item models.VideoWithOwner
		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.VideoURL, &item.Thumbnail,
			&item.Duration, &item.Views, &item.IsPublished, &item.OwnerID,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.FullName, &item.Owner.Username, &item.Owner.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return items, nil
}

func buildVideoFilter(filter models.VideoFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if !filter.IncludeUnpublished {
		clauses = append(clauses, "v.is_published")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, q)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(v.title ILIKE '%%' || $%d || '%%' OR v.description ILIKE '%%' || $%d || '%%')", n, n))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
