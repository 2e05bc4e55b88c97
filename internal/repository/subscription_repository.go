package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// Toggle removes the subscription if it exists and creates it otherwise.
// It reports whether the subscriber is subscribed afterwards.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	const deleteQuery = `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
	`
	const insertQuery = `
		INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING
	`

	cmd, err := r.pool.Exec(ctx, deleteQuery, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return false, nil
	}

	if _, err := r.pool.Exec(ctx, insertQuery, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	return true, nil
}
