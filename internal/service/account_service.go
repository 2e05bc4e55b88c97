package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"vidtube/internal/apperrors"
	"vidtube/internal/media/sniffer"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

// AccountService applies profile and media changes to an account. Media
// replacement always commits the new reference before the old asset is
// destroyed, so a failure at any step leaves the account pointing at an
// asset that exists.
type AccountService struct {
	users  UserStore
	media  MediaStore
	assets assetJanitor
	log    zerolog.Logger
}

func NewAccountService(users UserStore, media MediaStore, tasks TaskQueue, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		media:  media,
		assets: assetJanitor{media: media, tasks: tasks, log: log},
		log:    log,
	}
}

type UpdateDetailsInput struct {
	FullName string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
}

func (s *AccountService) UpdateDetails(ctx context.Context, userID string, input UpdateDetailsInput) (models.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalize(input.Email)
	if err := validateInput("all fields are required", input); err != nil {
		return models.User{}, err
	}

	user, err := s.users.UpdateDetails(ctx, userID, input.FullName, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.User{}, apperrors.Conflict("email is already in use")
		}
		return models.User{}, storeError(err, "user does not exist", "update account details")
	}
	return user, nil
}

type imageSlot struct {
	label   string
	current func(models.User) string
	commit  func(ctx context.Context, users UserStore, userID, url string) (models.User, error)
}

var (
	avatarSlot = imageSlot{
		label:   "avatar",
		current: func(u models.User) string { return u.AvatarURL },
		commit: func(ctx context.Context, users UserStore, userID, url string) (models.User, error) {
			return users.UpdateAvatar(ctx, userID, url)
		},
	}
	coverImageSlot = imageSlot{
		label:   "cover image",
		current: func(u models.User) string { return u.CoverImageURL },
		commit: func(ctx context.Context, users UserStore, userID, url string) (models.User, error) {
			return users.UpdateCoverImage(ctx, userID, url)
		},
	}
)

func (s *AccountService) UpdateAvatar(ctx context.Context, userID, localPath string) (models.User, error) {
	return s.replaceImage(ctx, userID, localPath, avatarSlot)
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID, localPath string) (models.User, error) {
	return s.replaceImage(ctx, userID, localPath, coverImageSlot)
}

func (s *AccountService) replaceImage(ctx context.Context, userID, localPath string, slot imageSlot) (models.User, error) {
	if localPath == "" {
		return models.User{}, apperrors.Validation(slot.label + " file is missing")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError(err, "user does not exist", "load user")
	}
	previous := slot.current(user)

	asset, err := s.media.Upload(ctx, localPath)
	if err != nil || asset.URL == "" {
		s.log.Warn().Err(err).Str("user_id", userID).Msgf("%s upload failed", slot.label)
		return models.User{}, apperrors.Validation("error while uploading " + slot.label)
	}
	if asset.Kind != sniffer.KindImage {
		s.assets.discard(ctx, asset.URL, slot.label+" is not an image")
		return models.User{}, apperrors.Validation(slot.label + " must be an image")
	}

	updated, err := slot.commit(ctx, s.users, userID, asset.URL)
	if err != nil {
		s.assets.discard(ctx, asset.URL, slot.label+" commit failed")
		return models.User{}, storeError(err, "user does not exist", "update "+slot.label)
	}

	s.assets.discard(ctx, previous, slot.label+" replaced")
	return updated, nil
}
