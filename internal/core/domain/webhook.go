package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookKind distinguishes the provider events absorbed by the guard.
type WebhookKind string

const (
	WebhookKindDeposit          WebhookKind = "DEPOSIT"
	WebhookKindWithdrawalResult WebhookKind = "WITHDRAWAL_RESULT"
)

// WebhookStatus records what the guarded event did.
type WebhookStatus string

const (
	WebhookStatusApplied     WebhookStatus = "APPLIED"
	WebhookStatusCompensated WebhookStatus = "COMPENSATED"
)

// ProcessedWebhook marks a provider event as applied.
// At most one row exists per ProviderReference.
type ProcessedWebhook struct {
	ID                uuid.UUID     `json:"id"`
	ProviderReference string        `json:"provider_reference"`
	Provider          string        `json:"provider"`
	Kind              WebhookKind   `json:"kind"`
	Status            WebhookStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}
