// Package mocks holds testify mocks and in-memory fakes of the service
// store interfaces.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"vidtube/internal/models"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) SetRefreshToken(ctx context.Context, id string, tokenHash []byte) error {
	return m.Called(ctx, id, tokenHash).Error(0)
}

func (m *UserStore) ClearRefreshToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *UserStore) UpdateDetails(ctx context.Context, id, fullName, email string) (models.User, error) {
	args := m.Called(ctx, id, fullName, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) UpdateAvatar(ctx context.Context, id, avatarURL string) (models.User, error) {
	args := m.Called(ctx, id, avatarURL)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (models.User, error) {
	args := m.Called(ctx, id, coverImageURL)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *UserStore) AddToWatchHistory(ctx context.Context, id, videoID string) error {
	return m.Called(ctx, id, videoID).Error(0)
}

func (m *UserStore) GetChannelProfile(ctx context.Context, username, viewerID string) (models.Channel, error) {
	args := m.Called(ctx, username, viewerID)
	return args.Get(0).(models.Channel), args.Error(1)
}

func (m *UserStore) GetWatchHistory(ctx context.Context, id string) ([]models.WatchedVideo, error) {
	args := m.Called(ctx, id)
	history, _ := args.Get(0).([]models.WatchedVideo)
	return history, args.Error(1)
}

type VideoStore struct{ mock.Mock }

func (m *VideoStore) Create(ctx context.Context, video models.Video) (models.Video, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *VideoStore) GetByID(ctx context.Context, id string) (models.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *VideoStore) IncrementViews(ctx context.Context, id string) (models.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *VideoStore) UpdateDetails(ctx context.Context, id, title, description, thumbnailURL string) (models.Video, error) {
	args := m.Called(ctx, id, title, description, thumbnailURL)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *VideoStore) TogglePublish(ctx context.Context, id string) (models.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *VideoStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type SubscriptionStore struct{ mock.Mock }

func (m *SubscriptionStore) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

type MediaStore struct{ mock.Mock }

func (m *MediaStore) Upload(ctx context.Context, localPath string) (storage.Asset, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(storage.Asset), args.Error(1)
}

func (m *MediaStore) Destroy(ctx context.Context, assetURL string) error {
	return m.Called(ctx, assetURL).Error(0)
}

type TaskQueue struct{ mock.Mock }

func (m *TaskQueue) Enqueue(ctx context.Context, task queue.Task) error {
	return m.Called(ctx, task).Error(0)
}

// MemoryUsers is a map-backed UserStore for multi-step scenarios.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[string]models.User{}}
}

func (s *MemoryUsers) Create(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, repository.ErrConflict
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryUsers) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		u := s.users[id]
		if (username != "" && u.Username == username) || (email != "" && strings.EqualFold(u.Email, email)) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *MemoryUsers) update(id string, fn func(*models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	fn(&user)
	s.users[id] = user
	return user, nil
}

func (s *MemoryUsers) SetRefreshToken(_ context.Context, id string, tokenHash []byte) error {
	_, err := s.update(id, func(u *models.User) { u.RefreshTokenHash = tokenHash })
	return err
}

func (s *MemoryUsers) ClearRefreshToken(_ context.Context, id string) error {
	_, err := s.update(id, func(u *models.User) { u.RefreshTokenHash = nil })
	return err
}

func (s *MemoryUsers) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	_, err := s.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
	return err
}

func (s *MemoryUsers) UpdateDetails(_ context.Context, id, fullName, email string) (models.User, error) {
	return s.update(id, func(u *models.User) { u.FullName, u.Email = fullName, email })
}

func (s *MemoryUsers) UpdateAvatar(_ context.Context, id, avatarURL string) (models.User, error) {
	return s.update(id, func(u *models.User) { u.AvatarURL = avatarURL })
}

func (s *MemoryUsers) UpdateCoverImage(_ context.Context, id, coverImageURL string) (models.User, error) {
	return s.update(id, func(u *models.User) { u.CoverImageURL = coverImageURL })
}

func (s *MemoryUsers) AddToWatchHistory(_ context.Context, id, videoID string) error {
	_, err := s.update(id, func(u *models.User) { u.WatchHistory = append(u.WatchHistory, videoID) })
	return err
}

func (s *MemoryUsers) GetChannelProfile(context.Context, string, string) (models.Channel, error) {
	return models.Channel{}, repository.ErrUserNotFound
}

func (s *MemoryUsers) GetWatchHistory(context.Context, string) ([]models.WatchedVideo, error) {
	return nil, nil
}
