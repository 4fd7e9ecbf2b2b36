package services

import (
	"fmt"

	"khmerdownload-api/internal/khqr"
	"khmerdownload-api/internal/models"

	"gorm.io/gorm"
)

// CheckoutResult is everything a client needs to render the payment screen:
// the QR payload, its fingerprint, and the minted bill reference to verify
// against later.
type CheckoutResult struct {
	BillNumber string `json:"bill_number"`
	QR         string `json:"qr"`
	MD5        string `json:"md5"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	ProgramID  uint   `json:"program_id"`
	ExpiresIn  int    `json:"expires_in"` // seconds until the intent expires
}

// PaymentService orchestrates checkout: price lookup, QR construction, and
// ledger recording. QR construction itself is pure (internal/khqr); this
// service owns the side effect of persisting the intent.
type PaymentService struct {
	programs     *ProgramService
	transactions *TransactionService
	merchant     khqr.Merchant
	currency     string
	expiresIn    int
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, merchant khqr.Merchant, currency string, expiresIn int) *PaymentService {
	return &PaymentService{
		programs:     NewProgramService(db),
		transactions: NewTransactionService(db),
		merchant:     merchant,
		currency:     currency,
		expiresIn:    expiresIn,
	}
}

// Checkout creates a payment intent for one program: a fresh bill number, a
// scannable KHQR payload for the program's price, and a PENDING ledger row.
// Each call is one purchase attempt; retries go through Checkout again and
// get a new bill number.
func (s *PaymentService) Checkout(programID uint, userID *uint, customerName string) (*CheckoutResult, error) {
	program, err := s.programs.GetByID(programID)
	if err != nil {
		return nil, err
	}
	if !program.IsPaid {
		return nil, fmt.Errorf("%w: program %d is free", ErrNotPurchasable, programID)
	}

	billNumber := khqr.NewBillNumber()
	intent, err := khqr.Generate(s.merchant, program.Price, s.currency, billNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.transactions.RecordIntent(
		billNumber, intent.Amount, intent.Currency,
		program.ID, userID, customerName, intent.MD5,
	); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		BillNumber: billNumber,
		QR:         intent.Payload,
		MD5:        intent.MD5,
		Amount:     intent.Amount.StringFixed(2),
		Currency:   intent.Currency,
		ProgramID:  program.ID,
		ExpiresIn:  s.expiresIn,
	}, nil
}

// CanDownload reports whether the caller may fetch the program: free items
// always, paid items only with a SUCCESS transaction for that program.
func (s *PaymentService) CanDownload(program *models.Program, billNumber string) error {
	if !program.IsPaid {
		return nil
	}
	if billNumber == "" {
		return fmt.Errorf("%w: program %d", ErrPaymentRequired, program.ID)
	}
	tx, err := s.transactions.GetByBillNumber(billNumber)
	if err != nil {
		return err
	}
	if tx.ProgramID != program.ID || tx.Status != models.StatusSuccess {
		return fmt.Errorf("%w: program %d", ErrPaymentRequired, program.ID)
	}
	return nil
}
