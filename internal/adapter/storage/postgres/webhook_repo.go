package postgres

import (
	"context"
	"fmt"

	"wager-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository over processed_webhooks.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

// Insert records a provider event inside the transaction that applies it.
// A uniqueness conflict on provider_reference means the event was already applied.
func (r *WebhookRepo) Insert(ctx context.Context, tx pgx.Tx, w *domain.ProcessedWebhook) (bool, error) {
	query := `INSERT INTO processed_webhooks (id, provider_reference, provider, kind, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_reference) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		w.ID, w.ProviderReference, w.Provider, string(w.Kind), string(w.Status), w.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert processed webhook: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Exists checks whether an event was already applied.
func (r *WebhookRepo) Exists(ctx context.Context, providerReference string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM processed_webhooks WHERE provider_reference = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, providerReference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check processed webhook: %w", err)
	}
	return exists, nil
}
