package payment

import "errors"

var (
	// ErrGatewayUnavailable means the Telebirr call failed or timed out. The
	// outcome is ambiguous: the payment stays pending until a definitive
	// callback or the reconciliation sweep resolves it.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrAlreadyPaid means the booking already has a settled payment.
	ErrAlreadyPaid = errors.New("booking is already paid")
)
