package services

import (
	"errors"
	"fmt"

	"khmerdownload-api/internal/models"
	"khmerdownload-api/pkg/logging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService is the payment ledger: one row per checkout attempt,
// keyed by bill number. Rows are never deleted; settled rows are the audit
// trail.
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new transaction service
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// RecordIntent persists a fresh PENDING transaction. The bill number must be
// newly minted: an existing reference is a hard integrity violation, not
// something to ignore.
func (s *TransactionService) RecordIntent(billNumber string, amount decimal.Decimal, currency string, programID uint, userID *uint, customerName, md5sum string) (*models.Transaction, error) {
	var existing models.Transaction
	err := s.db.Where("bill_number = ?", billNumber).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBillNumber, billNumber)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if currency == "" {
		currency = "USD"
	}

	tx := &models.Transaction{
		BillNumber:   billNumber,
		Amount:       amount,
		Currency:     currency,
		Status:       models.StatusPending,
		ProgramID:    programID,
		UserID:       userID,
		CustomerName: customerName,
		MD5:          md5sum,
	}

	if err := s.db.Create(tx).Error; err != nil {
		// The unique index backstops the pre-check under concurrency.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBillNumber, billNumber)
		}
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	logging.Event("transaction.created", billNumber,
		fmt.Sprintf("amount=%s %s program=%d", amount, currency, programID))
	return tx, nil
}

// GetByBillNumber looks a transaction up by its bill reference.
func (s *TransactionService) GetByBillNumber(billNumber string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.Where("bill_number = ?", billNumber).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, billNumber)
		}
		return nil, err
	}
	return &tx, nil
}

// UpdateStatus applies a new status to the referenced transaction and stamps
// the update time. Last writer wins; concurrent updates of different bill
// numbers never interfere (single-row update).
func (s *TransactionService) UpdateStatus(billNumber, status string) (*models.Transaction, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	result := s.db.Model(&models.Transaction{}).
		Where("bill_number = ?", billNumber).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, billNumber)
	}

	logging.Event("transaction.status", billNumber, "status="+status)
	return s.GetByBillNumber(billNumber)
}

// GetAll returns all transactions, newest first, for administrative review.
func (s *TransactionService) GetAll() ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Order("created_at DESC, id DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
