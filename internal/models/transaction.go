package models

import (
	"github.com/shopspring/decimal"
)

// Transaction statuses
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// ValidStatus reports whether s is one of the three transaction statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// Transaction records one payment attempt. One row per checkout attempt;
// a retried purchase creates a new row rather than reusing an old one.
type Transaction struct {
	BaseModel

	// BillNumber is the external correlation key presented in the QR
	// payload. Unique across all time, not just active rows.
	BillNumber string `json:"bill_number" gorm:"not null;size:64;uniqueIndex"`

	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency string          `json:"currency" gorm:"size:3;default:'USD'"`

	Status string `json:"status" gorm:"not null;size:10;default:'PENDING';index"`

	ProgramID uint  `json:"program_id" gorm:"not null;index"`
	UserID    *uint `json:"user_id" gorm:"index"` // nil for guest checkouts

	CustomerName string `json:"customer_name"`

	// MD5 fingerprint of the generated QR payload, used to detect a stale
	// or tampered payment image.
	MD5 string `json:"md5" gorm:"column:md5;size:32"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}
