package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"vidtube/internal/apperrors"
	"vidtube/internal/ids"
	"vidtube/internal/media/sniffer"
	"vidtube/internal/models"
	"vidtube/internal/storage"
)

type VideoService struct {
	videos VideoStore
	users  UserStore
	media  MediaStore
	assets assetJanitor
	log    zerolog.Logger
}

func NewVideoService(videos VideoStore, users UserStore, media MediaStore, tasks TaskQueue, log zerolog.Logger) *VideoService {
	return &VideoService{
		videos: videos,
		users:  users,
		media:  media,
		assets: assetJanitor{media: media, tasks: tasks, log: log},
		log:    log,
	}
}

type PublishVideoInput struct {
	Title         string `validate:"required,max=200"`
	Description   string `validate:"max=5000"`
	VideoPath     string
	ThumbnailPath string
	// Duration is used when the container carries no readable duration.
	Duration float64
}

type UpdateVideoInput struct {
	Title         string `validate:"max=200"`
	Description   string `validate:"max=5000"`
	ThumbnailPath string
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, input PublishVideoInput) (models.Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateInput("invalid video details", input); err != nil {
		return models.Video{}, err
	}
	if input.VideoPath == "" {
		return models.Video{}, apperrors.Validation("video file is required")
	}
	if input.ThumbnailPath == "" {
		return models.Video{}, apperrors.Validation("thumbnail is required")
	}

	thumbnail, err := s.uploadAs(ctx, input.ThumbnailPath, sniffer.KindImage, "thumbnail")
	if err != nil {
		return models.Video{}, err
	}

	file, err := s.uploadAs(ctx, input.VideoPath, sniffer.KindVideo, "video")
	if err != nil {
		s.assets.discard(ctx, thumbnail.URL, "video upload failed")
		return models.Video{}, err
	}

	duration := file.Duration
	if duration <= 0 && input.Duration > 0 {
		duration = input.Duration
	}

	video, err := s.videos.Create(ctx, models.Video{
		ID:           ids.New(),
		OwnerID:      ownerID,
		Title:        input.Title,
		Description:  input.Description,
		VideoURL:     file.URL,
		ThumbnailURL: thumbnail.URL,
		Duration:     duration,
	})
	if err != nil {
		s.assets.discard(ctx, file.URL, "video create failed")
		s.assets.discard(ctx, thumbnail.URL, "video create failed")
		return models.Video{}, apperrors.Internal("something went wrong while publishing the video", err)
	}

	s.log.Info().Str("video_id", video.ID).Str("user_id", ownerID).Msg("video published")
	return video, nil
}

// Get returns a video for a viewer. Unpublished videos are only visible to
// their owner. A signed-in viewer's watch history is updated.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID string) (models.Video, error) {
	if err := requireID(videoID, "video id"); err != nil {
		return models.Video{}, err
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "load video")
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return models.Video{}, apperrors.NotFound("video not found")
	}

	video, err = s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "increment views")
	}

	if viewerID != "" {
		if err := s.users.AddToWatchHistory(ctx, viewerID, videoID); err != nil {
			s.log.Warn().Err(err).Str("user_id", viewerID).Str("video_id", videoID).Msg("append watch history failed")
		}
	}
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, ownerID string, input UpdateVideoInput) (models.Video, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" && input.Description == "" && input.ThumbnailPath == "" {
		return models.Video{}, apperrors.Validation("at least one of title, description or thumbnail is required")
	}
	if err := validateInput("invalid video details", input); err != nil {
		return models.Video{}, err
	}

	video, err := s.ownedVideo(ctx, videoID, ownerID)
	if err != nil {
		return models.Video{}, err
	}

	title := firstNonEmpty(input.Title, video.Title)
	description := firstNonEmpty(input.Description, video.Description)
	thumbnailURL := video.ThumbnailURL
	if input.ThumbnailPath != "" {
		thumbnail, err := s.uploadAs(ctx, input.ThumbnailPath, sniffer.KindImage, "thumbnail")
		if err != nil {
			return models.Video{}, err
		}
		thumbnailURL = thumbnail.URL
	}

	updated, err := s.videos.UpdateDetails(ctx, videoID, title, description, thumbnailURL)
	if err != nil {
		if thumbnailURL != video.ThumbnailURL {
			s.assets.discard(ctx, thumbnailURL, "thumbnail commit failed")
		}
		return models.Video{}, storeError(err, "video not found", "update video")
	}

	if thumbnailURL != video.ThumbnailURL {
		s.assets.discard(ctx, video.ThumbnailURL, "thumbnail replaced")
	}
	return updated, nil
}

// Delete removes the record first; the media behind it is then destroyed
// best-effort.
func (s *VideoService) Delete(ctx context.Context, videoID, ownerID string) error {
	video, err := s.ownedVideo(ctx, videoID, ownerID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return storeError(err, "video not found", "delete video")
	}

	s.assets.discard(ctx, video.VideoURL, "video deleted")
	s.assets.discard(ctx, video.ThumbnailURL, "video deleted")
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, ownerID string) (models.Video, error) {
	if _, err := s.ownedVideo(ctx, videoID, ownerID); err != nil {
		return models.Video{}, err
	}

	video, err := s.videos.TogglePublish(ctx, videoID)
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "toggle publish status")
	}
	return video, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID, ownerID string) (models.Video, error) {
	if err := requireID(videoID, "video id"); err != nil {
		return models.Video{}, err
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return models.Video{}, storeError(err, "video not found", "load video")
	}
	if video.OwnerID != ownerID {
		return models.Video{}, apperrors.Forbidden("only the owner can modify this video")
	}
	return video, nil
}

func (s *VideoService) uploadAs(ctx context.Context, localPath string, kind sniffer.Kind, label string) (storage.Asset, error) {
	asset, err := s.media.Upload(ctx, localPath)
	if err != nil || asset.URL == "" {
		s.log.Warn().Err(err).Msgf("%s upload failed", label)
		return storage.Asset{}, apperrors.Validation("error while uploading " + label)
	}
	if asset.Kind != kind {
		s.assets.discard(ctx, asset.URL, label+" has the wrong media kind")
		return storage.Asset{}, apperrors.Validation(label + " must be " + article(kind) + " " + string(kind))
	}
	return asset, nil
}

func article(kind sniffer.Kind) string {
	if kind == sniffer.KindImage {
		return "an"
	}
	return "a"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
