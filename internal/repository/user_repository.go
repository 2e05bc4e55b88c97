package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidtube/internal/models"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url,
		       refresh_token_hash, watch_history, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshTokenHash,
		&user.WatchHistory,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, translate(err, ErrUserNotFound)
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (
			id, username, email, full_name, password_hash, avatar_url, cover_image_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
	))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByUsernameOrEmail matches whichever identifiers are non-empty.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		ORDER BY created_at
		LIMIT 1
	`
	return scanUser(r.pool.QueryRow(ctx, query, username, email))
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id string, tokenHash []byte) error {
	const query = `
		UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1
	`
	return r.execOne(ctx, query, id, tokenHash)
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	const query = `
		UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1
	`
	return r.execOne(ctx, query, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`
	return r.execOne(ctx, query, id, passwordHash)
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, fullName, email))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error) {
	query := `
		UPDATE users SET avatar_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, avatarURL))
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (models.User, error) {
	query := `
		UPDATE users SET cover_image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, coverImageURL))
}

// AddToWatchHistory moves videoID to the end of the history, keeping each
// video at most once.
func (r *UserRepository) AddToWatchHistory(ctx context.Context, id, videoID string) error {
	const query = `
		UPDATE users
		SET watch_history = array_append(array_remove(watch_history, $2), $2)
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, videoID)
}

func (r *UserRepository) GetChannelProfile(ctx context.Context, username, viewerID string) (models.Channel, error) {
	const query = `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url,
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
		       (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
		       EXISTS (
		           SELECT 1 FROM subscriptions s
		           WHERE s.channel_id = u.id AND s.subscriber_id = $2
		       )
		FROM users u
		WHERE u.username = $1
	`

	var channel models.Channel
	err := r.pool.QueryRow(ctx, query, username, viewerID).Scan(
		&channel.ID,
		&channel.Username,
		&channel.Email,
		&channel.FullName,
		&channel.AvatarURL,
		&channel.CoverImageURL,
		&channel.SubscribersCount,
		&channel.SubscribedToCount,
		&channel.IsSubscribed,
	)
	return channel, translate(err, ErrUserNotFound)
}

// GetWatchHistory returns the watched videos in history order. Videos that
// have since been deleted are skipped.
func (r *UserRepository) GetWatchHistory(ctx context.Context, id string) ([]models.WatchedVideo, error) {
	const query = `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       o.id, o.username, o.full_name, o.avatar_url
		FROM users u
		CROSS JOIN LATERAL unnest(u.watch_history) WITH ORDINALITY AS h(video_id, position)
		JOIN videos v ON v.id = h.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE u.id = $1
		ORDER BY h.position
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	history := make([]models.WatchedVideo, 0)
	for rows.Next() {
		var item models.WatchedVideo
		if err := rows.Scan(
			&item.Video.ID,
			&item.Video.OwnerID,
			&item.Video.Title,
			&item.Video.Description,
			&item.Video.VideoURL,
			&item.Video.ThumbnailURL,
			&item.Video.Duration,
			&item.Video.Views,
			&item.Video.IsPublished,
			&item.Video.CreatedAt,
			&item.Video.UpdatedAt,
			&item.Owner.ID,
			&item.Owner.Username,
			&item.Owner.FullName,
			&item.Owner.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		history = append(history, item)
	}
	return history, rows.Err()
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, ErrUserNotFound)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
