package service

import (
	"context"

	"vidtube/internal/models"
	"vidtube/internal/queue"
	"vidtube/internal/storage"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error)
	SetRefreshToken(ctx context.Context, id string, tokenHash []byte) error
	ClearRefreshToken(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) (models.User, error)
	AddToWatchHistory(ctx context.Context, id, videoID string) error
	GetChannelProfile(ctx context.Context, username, viewerID string) (models.Channel, error)
	GetWatchHistory(ctx context.Context, id string) ([]models.WatchedVideo, error)
}

type VideoStore interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	GetByID(ctx context.Context, id string) (models.Video, error)
	IncrementViews(ctx context.Context, id string) (models.Video, error)
	UpdateDetails(ctx context.Context, id, title, description, thumbnailURL string) (models.Video, error)
	TogglePublish(ctx context.Context, id string) (models.Video, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
}

type MediaStore interface {
	Upload(ctx context.Context, localPath string) (storage.Asset, error)
	Destroy(ctx context.Context, assetURL string) error
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task queue.Task) error
}
