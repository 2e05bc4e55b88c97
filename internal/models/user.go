package models

import "time"

// User is an account. PasswordHash and RefreshTokenHash never leave the
// service layer.
type User struct {
	ID               string
	Username         string
	Email            string
	FullName         string
	PasswordHash     []byte
	AvatarURL        string
	CoverImageURL    string
	RefreshTokenHash []byte
	WatchHistory     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Channel is the public profile of a user together with subscription counts
// as seen by a particular viewer.
type Channel struct {
	ID                string
	Username          string
	Email             string
	FullName          string
	AvatarURL         string
	CoverImageURL     string
	SubscribersCount  int64
	SubscribedToCount int64
	IsSubscribed      bool
}

// Owner is the projection of a user embedded in video listings.
type Owner struct {
	ID        string
	Username  string
	FullName  string
	AvatarURL string
}
