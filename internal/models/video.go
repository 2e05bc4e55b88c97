package models

import "time"

type Video struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WatchedVideo is one watch-history entry hydrated with its owner.
type WatchedVideo struct {
	Video Video
	Owner Owner
}
