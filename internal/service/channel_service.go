package service

import (
	"context"

	"vidtube/internal/apperrors"
	"vidtube/internal/models"
)

type ChannelService struct {
	users         UserStore
	subscriptions SubscriptionStore
}

func NewChannelService(users UserStore, subscriptions SubscriptionStore) *ChannelService {
	return &ChannelService{users: users, subscriptions: subscriptions}
}

// Profile returns a channel as seen by viewerID, which may be empty for
// anonymous viewers.
func (s *ChannelService) Profile(ctx context.Context, username, viewerID string) (models.Channel, error) {
	username = normalize(username)
	if username == "" {
		return models.Channel{}, apperrors.Validation("username is missing")
	}

	channel, err := s.users.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return models.Channel{}, storeError(err, "channel does not exist", "load channel")
	}
	return channel, nil
}

func (s *ChannelService) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	history, err := s.users.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("load watch history", err)
	}
	return history, nil
}

// ToggleSubscription flips the subscription and reports the new state.
func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if err := requireID(channelID, "channel id"); err != nil {
		return false, err
	}
	if channelID == subscriberID {
		return false, apperrors.Validation("cannot subscribe to your own channel")
	}

	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		return false, storeError(err, "channel does not exist", "load channel")
	}

	subscribed, err := s.subscriptions.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return false, apperrors.Internal("toggle subscription", err)
	}
	return subscribed, nil
}
