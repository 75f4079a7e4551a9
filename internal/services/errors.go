package services

import "errors"

var (
	// ErrInvalidRequest marks malformed or incomplete caller input, from
	// checkout submissions to enum values on admin operations.
	// User-correctable; surfaced to the caller as HTTP 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrGatewayRejected marks a session the payment gateway refused.
	ErrGatewayRejected = errors.New("payment gateway rejected the session")

	// ErrSignatureInvalid marks a webhook whose authenticity could not be
	// established. The request is rejected with no side effects.
	ErrSignatureInvalid = errors.New("webhook signature invalid")

	// ErrMissingMetadata marks a completion event that lacks the data
	// needed to rebuild the order. The event is acknowledged so the
	// gateway stops retrying, but no order is created.
	ErrMissingMetadata = errors.New("webhook event missing required metadata")

	// ErrProductNotFound marks a cart line whose product vanished between
	// checkout and webhook processing. Order creation aborts and the
	// webhook reports failure so the gateway retries.
	ErrProductNotFound = errors.New("referenced product no longer exists")

	// ErrPersistenceFailure marks a backend write failure, propagated as
	// webhook failure to trigger the gateway's retry.
	ErrPersistenceFailure = errors.New("failed to persist order")

	// ErrForbidden marks an operation the caller's role does not permit.
	ErrForbidden = errors.New("operation requires admin role")
)
