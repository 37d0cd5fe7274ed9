package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/models"
)

const userColumns = `id, full_name, username, email, password_hash, avatar_url, cover_image_url, watch_history, created_at, updated_at`

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	history := user.WatchHistory
	if history == nil {
		history = []string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, full_name, username, email, password_hash, avatar_url, cover_image_url, watch_history, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, user.ID, user.FullName, user.Username, user.Email, user.Password, user.AvatarURL, user.CoverImage, history, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return translatePgError(err, "insert user")
	}

	return nil
}

// FindByID fetches a user by primary key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "select user by id")
}

// FindByLogin fetches a user by email or username.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, identifier string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE email = $1 OR lower(username) = lower($1)
    `, identifier)
	return scanUser(row, "select user by login")
}

// UpdateAccount changes the mutable account details and returns the record.
func (r *PostgresUserRepository) UpdateAccount(ctx context.Context, id, fullName, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users
        SET full_name = $2, email = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING `+userColumns, id, fullName, email)
	return scanUser(row, "update user account")
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateAvatar stores a new avatar URL and returns the updated record.
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id, url string) (models.User, error) {
	return r.updateImage(ctx, id, "avatar_url", url)
}

// UpdateCoverImage stores a new cover image URL and returns the updated record.
func (r *PostgresUserRepository) UpdateCoverImage(ctx context.Context, id, url string) (models.User, error) {
	return r.updateImage(ctx, id, "cover_image_url", url)
}

func (r *PostgresUserRepository) updateImage(ctx context.Context, id, column, url string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// column is one of two fixed identifiers, never caller input.
	row := conn.QueryRow(ctx, `
        UPDATE users SET `+column+` = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING `+userColumns, id, url)
	return scanUser(row, "update user "+column)
}

// RecordWatch prepends the video id to the watch history, deduplicating any
// earlier occurrence so the list stays most-recently-watched first.
func (r *PostgresUserRepository) RecordWatch(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET watch_history = array_prepend($2::text, array_remove(watch_history, $2::text)),
            updated_at = NOW()
        WHERE id = $1
    `, userID, videoID)
	if err != nil {
		return fmt.Errorf("record watch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// WatchHistory resolves the ordered history ids into videos with owner
// projections. The inner join silently drops ids whose video was deleted.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := conn.Query(ctx, `
        SELECT `+prefixedVideoColumns("v")+`, u.id, u.full_name, u.username, u.avatar_url
        FROM users me
        CROSS JOIN LATERAL unnest(me.watch_history) WITH ORDINALITY AS h(video_id, pos)
        JOIN videos v ON v.id = h.video_id
        JOIN users u ON u.id = v.owner_id
        WHERE me.id = $1
        ORDER BY h.pos
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	return collectVideosWithOwner(rows, "watch history")
}

// translatePgError maps PostgreSQL constraint violations onto the repository
// sentinels; everything else is wrapped with the operation name.
func translatePgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanUser(row pgx.Row, op string) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.FullName, &user.Username, &user.Email, &user.Password,
		&user.AvatarURL, &user.CoverImage, &user.WatchHistory,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
