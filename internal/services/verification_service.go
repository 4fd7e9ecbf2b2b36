package services

import (
	"context"
	"fmt"
	"time"

	"khmerdownload-api/internal/models"
	"khmerdownload-api/pkg/logging"

	"gorm.io/gorm"
)

// VerificationOutcome is the caller-visible result of a verify call.
type VerificationOutcome string

const (
	OutcomeConfirmed    VerificationOutcome = "CONFIRMED"
	OutcomeStillPending VerificationOutcome = "STILL_PENDING"
	OutcomeExpired      VerificationOutcome = "EXPIRED"
	OutcomeFailed       VerificationOutcome = "FAILED"
)

// VerificationResult carries the outcome and, on CONFIRMED, the download
// locator of the purchased item. The coordinator hands the locator back;
// serving the file is someone else's job.
type VerificationResult struct {
	Outcome         VerificationOutcome `json:"outcome"`
	BillNumber      string              `json:"bill_number"`
	Status          string              `json:"status"`
	DownloadLocator string              `json:"download_locator,omitempty"`
}

// VerificationService decides whether a PENDING transaction becomes SUCCESS.
// State machine: PENDING -> SUCCESS on confirmation, PENDING -> FAILED on
// expiry or failure signal. SUCCESS and FAILED are terminal: re-verifying a
// settled transaction returns the stored outcome without touching the probe.
type VerificationService struct {
	transactions *TransactionService
	programs     *ProgramService
	probe        SettlementProbe
	expiry       time.Duration
}

// NewVerificationService creates a new verification coordinator. expiry is
// the validity window of a payment intent; verify attempts after it yield
// EXPIRED rather than honoring a stale QR.
func NewVerificationService(db *gorm.DB, probe SettlementProbe, expiry time.Duration) *VerificationService {
	return &VerificationService{
		transactions: NewTransactionService(db),
		programs:     NewProgramService(db),
		probe:        probe,
		expiry:       expiry,
	}
}

// Verify checks settlement for one bill reference.
func (s *VerificationService) Verify(ctx context.Context, billNumber string) (*VerificationResult, error) {
	tx, err := s.transactions.GetByBillNumber(billNumber)
	if err != nil {
		return nil, err
	}

	// Terminal states short-circuit; settlement logic never re-runs.
	switch tx.Status {
	case models.StatusSuccess:
		return s.confirmed(tx)
	case models.StatusFailed:
		return &VerificationResult{
			Outcome:    OutcomeFailed,
			BillNumber: billNumber,
			Status:     tx.Status,
		}, nil
	}

	// Server-side expiry enforcement: a stale QR must not be honored even
	// if the probe would confirm it.
	if time.Since(tx.CreatedAt) > s.expiry {
		if _, err := s.transactions.UpdateStatus(billNumber, models.StatusFailed); err != nil {
			return nil, err
		}
		logging.Event("transaction.expired", billNumber,
			fmt.Sprintf("window=%s", s.expiry))
		return &VerificationResult{
			Outcome:    OutcomeExpired,
			BillNumber: billNumber,
			Status:     models.StatusFailed,
		}, nil
	}

	result, err := s.probe.CheckSettlement(ctx, billNumber)
	if err != nil {
		// A check that could not run is retryable, never a confirmation.
		logging.Errorf("Settlement check failed for %s: %v", billNumber, err)
		return &VerificationResult{
			Outcome:    OutcomeStillPending,
			BillNumber: billNumber,
			Status:     tx.Status,
		}, nil
	}

	switch result {
	case SettlementConfirmed:
		if tx, err = s.transactions.UpdateStatus(billNumber, models.StatusSuccess); err != nil {
			return nil, err
		}
		return s.confirmed(tx)
	case SettlementExpired:
		if _, err := s.transactions.UpdateStatus(billNumber, models.StatusFailed); err != nil {
			return nil, err
		}
		return &VerificationResult{
			Outcome:    OutcomeExpired,
			BillNumber: billNumber,
			Status:     models.StatusFailed,
		}, nil
	default:
		return &VerificationResult{
			Outcome:    OutcomeStillPending,
			BillNumber: billNumber,
			Status:     tx.Status,
		}, nil
	}
}

// confirmed builds the CONFIRMED result including the download locator.
func (s *VerificationService) confirmed(tx *models.Transaction) (*VerificationResult, error) {
	result := &VerificationResult{
		Outcome:    OutcomeConfirmed,
		BillNumber: tx.BillNumber,
		Status:     tx.Status,
	}

	program, err := s.programs.GetByID(tx.ProgramID)
	if err != nil {
		// The purchase stands even if the catalog row went away; the
		// locator is simply unavailable.
		logging.Errorf("Program %d missing for confirmed transaction %s: %v", tx.ProgramID, tx.BillNumber, err)
		return result, nil
	}
	result.DownloadLocator = program.DownloadLocator()
	return result, nil
}
