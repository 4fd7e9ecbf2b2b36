package services

import "errors"

// Sentinel errors surfaced by the services. Handlers map these onto HTTP
// statuses; none of them is retried inside the services themselves.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateBillNumber = errors.New("bill number already exists")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidCode         = errors.New("invalid or expired code")
	ErrRateLimited         = errors.New("too many requests, wait before retrying")
	ErrNotPurchasable      = errors.New("item is not purchasable")
	ErrPaymentRequired     = errors.New("payment required")
)
