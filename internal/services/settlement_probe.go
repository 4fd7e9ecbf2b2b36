package services

import (
	"context"
	"time"
)

// SettlementResult is what a settlement check reports for one bill reference.
type SettlementResult int

const (
	// SettlementConfirmed: the network confirmed funds were received
	// under this reference.
	SettlementConfirmed SettlementResult = iota
	// SettlementNotYet: no confirmation yet; the client may retry.
	SettlementNotYet
	// SettlementExpired: the network reports the reference can no longer
	// settle.
	SettlementExpired
)

// SettlementProbe answers "was a specific amount received under a specific
// reference". A production deployment plugs in a client for the Bakong
// check-transaction API or a webhook-fed store; tests plug in scripted
// probes. Errors mean the check itself could not run and must be treated as
// retryable, never as confirmation.
type SettlementProbe interface {
	CheckSettlement(ctx context.Context, billNumber string) (SettlementResult, error)
}

// simulatedProbe stands in for a real settlement network: it confirms every
// reference after a fixed delay. Kept only for environments without a Bakong
// integration.
type simulatedProbe struct {
	delay time.Duration
}

// NewSimulatedProbe creates a probe that confirms after delay.
func NewSimulatedProbe(delay time.Duration) SettlementProbe {
	return &simulatedProbe{delay: delay}
}

func (p *simulatedProbe) CheckSettlement(ctx context.Context, billNumber string) (SettlementResult, error) {
	select {
	case <-time.After(p.delay):
		return SettlementConfirmed, nil
	case <-ctx.Done():
		return SettlementNotYet, ctx.Err()
	}
}
