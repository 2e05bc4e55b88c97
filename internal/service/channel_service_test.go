package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vidtube/internal/apperrors"
	"vidtube/internal/mocks"
	"vidtube/internal/models"
	"vidtube/internal/repository"
)

// The subscription state itself is computed in SQL and covered by the
// repository's Postgres suite; the service normalizes the username and
// forwards the viewer unchanged.
func TestProfileForwardsNormalizedUsernameAndViewer(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	svc := NewChannelService(users, &mocks.SubscriptionStore{})

	_, err := svc.Profile(ctx, "  ", viewerID)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	users.On("GetChannelProfile", ctx, "ghost", viewerID).Return(models.Channel{}, repository.ErrUserNotFound)
	_, err = svc.Profile(ctx, "Ghost", viewerID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	users.On("GetChannelProfile", ctx, "alice", viewerID).Return(models.Channel{Username: "alice"}, nil).Once()
	_, err = svc.Profile(ctx, "  Alice ", viewerID)
	require.NoError(t, err)

	users.On("GetChannelProfile", ctx, "alice", "").Return(models.Channel{Username: "alice"}, nil).Once()
	_, err = svc.Profile(ctx, "alice", "")
	require.NoError(t, err)

	users.AssertExpectations(t)
}

func TestWatchHistory(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	svc := NewChannelService(users, &mocks.SubscriptionStore{})

	history := []models.WatchedVideo{{Video: models.Video{ID: videoID}, Owner: models.Owner{Username: "alice"}}}
	users.On("GetWatchHistory", ctx, viewerID).Return(history, nil)
	got, err := svc.WatchHistory(ctx, viewerID)
	require.NoError(t, err)
	assert.Equal(t, history, got)

	users.On("GetWatchHistory", ctx, ownerID).Return(nil, errors.New("db down"))
	_, err = svc.WatchHistory(ctx, ownerID)
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
}

func TestToggleSubscription(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	subs := &mocks.SubscriptionStore{}
	svc := NewChannelService(users, subs)

	_, err := svc.ToggleSubscription(ctx, viewerID, "bad id")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.ToggleSubscription(ctx, ownerID, ownerID)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	users.On("GetByID", ctx, videoID).Return(models.User{}, repository.ErrUserNotFound)
	_, err = svc.ToggleSubscription(ctx, viewerID, videoID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	users.On("GetByID", ctx, ownerID).Return(models.User{ID: ownerID}, nil)
	subs.On("Toggle", ctx, viewerID, ownerID).Return(true, nil).Once()
	subscribed, err := svc.ToggleSubscription(ctx, viewerID, ownerID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subs.AssertExpectations(t)
	subs.AssertNotCalled(t, "Toggle", mock.Anything, ownerID, ownerID)
}
