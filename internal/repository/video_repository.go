package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidtube/internal/models"
)

const videoColumns = `id, owner_id, title, description, video_url, thumbnail_url,
		       duration, views, is_published, created_at, updated_at`

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	return video, translate(err, ErrVideoNotFound)
}

func (r *VideoRepository) Create(ctx context.Context, video models.Video) (models.Video, error) {
	query := `
		INSERT INTO videos (
			id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, 0, $8, NOW(), NOW()
		)
		RETURNING ` + videoColumns

	return scanVideo(r.pool.QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.IsPublished,
	))
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return scanVideo(r.pool.QueryRow(ctx, query, id))
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) (models.Video, error) {
	query := `
		UPDATE videos SET views = views + 1
		WHERE id = $1
		RETURNING ` + videoColumns
	return scanVideo(r.pool.QueryRow(ctx, query, id))
}

func (r *VideoRepository) UpdateDetails(ctx context.Context, id, title, description, thumbnailURL string) (models.Video, error) {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + videoColumns
	return scanVideo(r.pool.QueryRow(ctx, query, id, title, description, thumbnailURL))
}

func (r *VideoRepository) TogglePublish(ctx context.Context, id string) (models.Video, error) {
	query := `
		UPDATE videos SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + videoColumns
	return scanVideo(r.pool.QueryRow(ctx, query, id))
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM videos WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVideoNotFound
	}
	return nil
}
