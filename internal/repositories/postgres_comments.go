package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/models"
)

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create stores a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, content, video_id, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.Content, comment.VideoID, comment.OwnerID, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return translatePgError(err, "insert comment")
	}

	return nil
}

// FindByID fetches a comment by primary key.
func (r *PostgresCommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, content, video_id, owner_id, created_at, updated_at
        FROM comments WHERE id = $1
    `, id)
	return scanComment(row, "select comment by id")
}

// ListForVideo pages through a video's comments, newest first.
func (r *PostgresCommentRepository) ListForVideo(ctx context.Context, videoID string, page models.Page) (models.CommentPage, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.CommentPage{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE video_id = $1`, videoID).Scan(&total); err != nil {
		return models.CommentPage{}, fmt.Errorf("count comments: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.content, c.video_id, c.owner_id, c.created_at, c.updated_at,
               u.id, u.full_name, u.username, u.avatar_url
        FROM comments c
        JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC
        LIMIT $2 OFFSET $3
    `, videoID, page.Size, page.Offset())
	if err != nil {
		return models.CommentPage{}, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var items []models.CommentWithOwner
	for rows.Next() {
		var item models.CommentWithOwner
		err := rows.Scan(
			&item.ID, &item.Content, &item.VideoID, &item.OwnerID,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Owner.ID, &item.Owner.FullName, &item.Owner.Username, &item.Owner.Avatar,
		)
		if err != nil {
			return models.CommentPage{}, fmt.Errorf("scan comment row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return models.CommentPage{}, fmt.Errorf("iterate comments: %w", err)
	}

	return models.CommentPage{
		Items:      items,
		TotalCount: total,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
	}, nil
}

// UpdateContent replaces the comment text and returns the updated record.
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, id, content string) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE comments SET content = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING id, content, video_id, owner_id, created_at, updated_at
    `, id, content)
	return scanComment(row, "update comment")
}

// Delete removes the comment and any likes pointing at it.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin comment delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes WHERE target_kind = 'comment' AND target_id = $1
    `, id); err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit comment delete: %w", err)
	}

	return nil
}

func scanComment(row pgx.Row, op string) (models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.Content, &comment.VideoID, &comment.OwnerID,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}
	return comment, nil
}

var _ CommentRepository = (*PostgresCommentRepository)(nil)
