package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vidtube/internal/queue"
	"vidtube/internal/storage"
)

type AssetDestroyer interface {
	Destroy(ctx context.Context, assetURL string) error
}

type StagingSweeper interface {
	Sweep(olderThan time.Duration) (int, error)
}

type Processor struct {
	assets     AssetDestroyer
	staging    StagingSweeper
	staleAfter time.Duration
	logger     zerolog.Logger
}

func NewProcessor(assets AssetDestroyer, staging StagingSweeper, staleAfter time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		assets:     assets,
		staging:    staging,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

func (p *Processor) Handle(ctx context.Context, task queue.Task) error {
	switch task.Type {
	case queue.TaskAssetDestroy:
		return p.handleAssetDestroy(ctx, task)
	case queue.TaskStagingSweep:
		return p.handleStagingSweep()
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleAssetDestroy(ctx context.Context, task queue.Task) error {
	if task.URL == "" {
		p.logger.Warn().Msg("asset.destroy task without url")
		return nil
	}
	if err := p.assets.Destroy(ctx, task.URL); err != nil {
		if errors.Is(err, storage.ErrInvalidAssetURL) {
			return queue.Permanent(fmt.Errorf("destroy %s: %w", task.URL, err))
		}
		return fmt.Errorf("destroy %s: %w", task.URL, err)
	}
	p.logger.Info().Str("asset_url", task.URL).Str("reason", task.Reason).Msg("stale asset destroyed")
	return nil
}

func (p *Processor) handleStagingSweep() error {
	removed, err := p.staging.Sweep(p.staleAfter)
	if removed > 0 {
		p.logger.Info().Int("removed", removed).Msg("staging area swept")
	}
	if err != nil {
		return fmt.Errorf("sweep staging: %w", err)
	}
	return nil
}
