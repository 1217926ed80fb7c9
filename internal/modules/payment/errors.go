package payment

import "errors"

var (
	// ErrNotConfigured means gateway credentials are absent. Fatal and
	// non-retryable, unlike a transient gateway failure.
	ErrNotConfigured = errors.New("payment gateway is not configured: set RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET")

	// ErrGateway is a transient upstream failure. The booking stays PENDING
	// and the caller may retry verification with the same identifiers.
	ErrGateway = errors.New("payment gateway unavailable")

	// ErrNotCaptured is the gateway's authoritative word that the payment
	// did not succeed. The booking moves to FAILED.
	ErrNotCaptured = errors.New("payment not captured")

	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrValidation       = errors.New("missing payment details")
	ErrNotFound         = errors.New("booking not found")
	ErrConflict         = errors.New("booking is already in a terminal state")
)
