package service

import (
	"context"

	"github.com/rs/zerolog"

	"vidtube/internal/queue"
)

// assetJanitor deletes media that is no longer referenced. Deletion is
// advisory: failures are logged and handed to the worker through the task
// queue, never returned.
type assetJanitor struct {
	media MediaStore
	tasks TaskQueue
	log   zerolog.Logger
}

func (j assetJanitor) discard(ctx context.Context, assetURL, reason string) {
	if assetURL == "" {
		return
	}

	err := j.media.Destroy(ctx, assetURL)
	if err == nil {
		return
	}

	j.log.Warn().
		Err(err).
		Str("asset_url", assetURL).
		Str("reason", reason).
		Msg("destroy asset failed, deferring to worker")

	if j.tasks == nil {
		return
	}
	if qerr := j.tasks.Enqueue(ctx, queue.Task{Type: queue.TaskAssetDestroy, URL: assetURL, Reason: reason}); qerr != nil {
		j.log.Error().Err(qerr).Str("asset_url", assetURL).Msg("enqueue asset destroy failed")
	}
}
