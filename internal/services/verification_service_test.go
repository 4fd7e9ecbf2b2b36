package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"khmerdownload-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// scriptedProbe returns a fixed result and counts how often it ran.
type scriptedProbe struct {
	result SettlementResult
	err    error
	calls  int
}

func (p *scriptedProbe) CheckSettlement(ctx context.Context, billNumber string) (SettlementResult, error) {
	p.calls++
	return p.result, p.err
}

func seedPurchase(t *testing.T, db *gorm.DB, billNumber string) {
	t.Helper()

	program := models.Program{
		Title:               "Khmer Keyboard Pro",
		Price:               decimal.NewFromFloat(10.99),
		IsPaid:              true,
		ExternalDownloadURL: "https://cdn.example.com/keyboard-pro.zip",
	}
	require.NoError(t, db.Create(&program).Error)

	_, err := NewTransactionService(db).RecordIntent(
		billNumber, program.Price, "USD", program.ID, nil, "", "")
	require.NoError(t, err)
}

func Test_Verify(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		v := NewVerificationService(testDB(t), &scriptedProbe{}, time.Minute)

		_, err := v.Verify(context.Background(), "KH-MISSING")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Confirmed", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-10-A")
		probe := &scriptedProbe{result: SettlementConfirmed}
		v := NewVerificationService(db, probe, time.Minute)

		result, err := v.Verify(context.Background(), "KH-10-A")
		require.NoError(t, err)
		assert.Equal(t, OutcomeConfirmed, result.Outcome)
		assert.Equal(t, models.StatusSuccess, result.Status)
		assert.Equal(t, "https://cdn.example.com/keyboard-pro.zip", result.DownloadLocator)

		tx, err := NewTransactionService(db).GetByBillNumber("KH-10-A")
		require.NoError(t, err)
		assert.Equal(t, models.StatusSuccess, tx.Status)
	})

	t.Run("TerminalIsIdempotent", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-11-B")
		probe := &scriptedProbe{result: SettlementConfirmed}
		v := NewVerificationService(db, probe, time.Minute)

		first, err := v.Verify(context.Background(), "KH-11-B")
		require.NoError(t, err)
		second, err := v.Verify(context.Background(), "KH-11-B")
		require.NoError(t, err)

		assert.Equal(t, OutcomeConfirmed, first.Outcome)
		assert.Equal(t, OutcomeConfirmed, second.Outcome)
		assert.Equal(t, first.DownloadLocator, second.DownloadLocator)
		// Settlement ran once; the second verify read the terminal state.
		assert.Equal(t, 1, probe.calls)
	})

	t.Run("FailedIsTerminal", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-12-C")
		_, err := NewTransactionService(db).UpdateStatus("KH-12-C", models.StatusFailed)
		require.NoError(t, err)

		probe := &scriptedProbe{result: SettlementConfirmed}
		v := NewVerificationService(db, probe, time.Minute)

		result, err := v.Verify(context.Background(), "KH-12-C")
		require.NoError(t, err)
		assert.Equal(t, OutcomeFailed, result.Outcome)
		assert.Zero(t, probe.calls)
	})

	t.Run("ExpiredWindow", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-13-D")
		// Age the intent past the validity window.
		require.NoError(t, db.Model(&models.Transaction{}).
			Where("bill_number = ?", "KH-13-D").
			Update("created_at", time.Now().Add(-10*time.Minute)).Error)

		probe := &scriptedProbe{result: SettlementConfirmed}
		v := NewVerificationService(db, probe, 2*time.Minute)

		result, err := v.Verify(context.Background(), "KH-13-D")
		require.NoError(t, err)
		assert.Equal(t, OutcomeExpired, result.Outcome)
		// A stale QR is never honored, even though the probe would confirm.
		assert.Zero(t, probe.calls)

		tx, err := NewTransactionService(db).GetByBillNumber("KH-13-D")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, tx.Status)
	})

	t.Run("ProbeErrorIsRetryable", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-14-E")
		probe := &scriptedProbe{err: errors.New("settlement backend unreachable")}
		v := NewVerificationService(db, probe, time.Minute)

		result, err := v.Verify(context.Background(), "KH-14-E")
		require.NoError(t, err)
		assert.Equal(t, OutcomeStillPending, result.Outcome)

		// The row stays PENDING so the client can retry.
		tx, err := NewTransactionService(db).GetByBillNumber("KH-14-E")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, tx.Status)
	})

	t.Run("NotYet", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-15-F")
		probe := &scriptedProbe{result: SettlementNotYet}
		v := NewVerificationService(db, probe, time.Minute)

		result, err := v.Verify(context.Background(), "KH-15-F")
		require.NoError(t, err)
		assert.Equal(t, OutcomeStillPending, result.Outcome)
	})

	t.Run("ProbeReportsExpired", func(t *testing.T) {
		db := testDB(t)
		seedPurchase(t, db, "KH-16-G")
		probe := &scriptedProbe{result: SettlementExpired}
		v := NewVerificationService(db, probe, time.Minute)

		result, err := v.Verify(context.Background(), "KH-16-G")
		require.NoError(t, err)
		assert.Equal(t, OutcomeExpired, result.Outcome)

		tx, err := NewTransactionService(db).GetByBillNumber("KH-16-G")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, tx.Status)
	})
}

func Test_SimulatedProbe(t *testing.T) {
	t.Run("ConfirmsAfterDelay", func(t *testing.T) {
		probe := NewSimulatedProbe(time.Millisecond)
		result, err := probe.CheckSettlement(context.Background(), "KH-17-H")
		require.NoError(t, err)
		assert.Equal(t, SettlementConfirmed, result)
	})

	t.Run("HonorsCancellation", func(t *testing.T) {
		probe := NewSimulatedProbe(time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := probe.CheckSettlement(ctx, "KH-18-I")
		assert.Error(t, err)
		assert.Equal(t, SettlementNotYet, result)
	})
}
