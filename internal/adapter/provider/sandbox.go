// Package provider holds payout provider adapters.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wager-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outcome fixes the sandbox's answer to every transfer.
type Outcome string

const (
	OutcomeSucceed Outcome = "succeed"
	OutcomeFail    Outcome = "fail"
	OutcomePending Outcome = "pending"
)

// ErrTransferDeclined is returned for transfers the sandbox fails.
var ErrTransferDeclined = errors.New("sandbox: transfer declined")

// Sandbox is a PayoutProvider that answers locally after an optional delay.
type Sandbox struct {
	name    string
	outcome Outcome
	latency time.Duration
	log     zerolog.Logger
}

// NewSandbox creates a sandbox provider.
func NewSandbox(name string, outcome Outcome, latency time.Duration, log zerolog.Logger) (*Sandbox, error) {
	switch outcome {
	case OutcomeSucceed, OutcomeFail, OutcomePending:
	default:
		return nil, fmt.Errorf("sandbox: unknown outcome %q", outcome)
	}
	return &Sandbox{name: name, outcome: outcome, latency: latency, log: log}, nil
}

// Name implements ports.PayoutProvider.
func (s *Sandbox) Name() string { return s.name }

// Transfer implements ports.PayoutProvider.
func (s *Sandbox) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	ref := "sbx_" + uuid.NewString()
	s.log.Debug().
		Str("withdrawal_id", req.WithdrawalID).
		Str("user_id", req.UserID).
		Str("amount", req.Amount.String()).
		Str("outcome", string(s.outcome)).
		Msg("sandbox transfer")

	switch s.outcome {
	case OutcomeFail:
		return &ports.TransferResult{ProviderReference: ref, Status: ports.TransferFailed, Reason: "declined by sandbox"}, ErrTransferDeclined
	case OutcomePending:
		return &ports.TransferResult{ProviderReference: ref, Status: ports.TransferPending}, nil
	default:
		return &ports.TransferResult{ProviderReference: ref, Status: ports.TransferSucceeded}, nil
	}
}
