package handlers

import (
	"time"

	"vidtube/internal/models"
)

type userResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserResponse(u models.User) userResponse {
	history := u.WatchHistory
	if history == nil {
		history = []string{}
	}
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Avatar:       u.AvatarURL,
		CoverImage:   u.CoverImageURL,
		WatchHistory: history,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type channelResponse struct {
	ID                        string `json:"id"`
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

func newChannelResponse(ch models.Channel) channelResponse {
	return channelResponse{
		ID:                        ch.ID,
		FullName:                  ch.FullName,
		Username:                  ch.Username,
		Email:                     ch.Email,
		Avatar:                    ch.AvatarURL,
		CoverImage:                ch.CoverImageURL,
		SubscribersCount:          ch.SubscribersCount,
		ChannelsSubscribedToCount: ch.SubscribedToCount,
		IsSubscribed:              ch.IsSubscribed,
	}
}

type videoResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newVideoResponse(v models.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		Owner:       v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoURL,
		Thumbnail:   v.ThumbnailURL,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type ownerResponse struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// historyEntry replaces the owner id of a video with the owner projection.
type historyEntry struct {
	videoResponse
	Owner ownerResponse `json:"owner"`
}

func newHistoryResponse(items []models.WatchedVideo) []historyEntry {
	out := make([]historyEntry, 0, len(items))
	for _, item := range items {
		out = append(out, historyEntry{
			videoResponse: newVideoResponse(item.Video),
			Owner: ownerResponse{
				FullName: item.Owner.FullName,
				Username: item.Owner.Username,
				Avatar:   item.Owner.AvatarURL,
			},
		})
	}
	return out
}
