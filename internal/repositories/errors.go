package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePaymentRef is returned when an order with the same
	// payment reference already exists. Callers treat it as an
	// idempotent success, not a failure.
	ErrDuplicatePaymentRef = errors.New("order with this payment reference already exists")
)
