package zarinpal

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPaymentFailed is returned when the gateway rejects the payment
	ErrPaymentFailed = errors.New("payment failed")

	// ErrPaymentNotVerified is returned when verification reports an unpaid transaction
	ErrPaymentNotVerified = errors.New("payment not verified")

	// ErrInvalidAuthority is returned when the authority token is unknown to the gateway
	ErrInvalidAuthority = errors.New("invalid authority")

	// ErrAmountMismatch is returned when the verified amount differs from the requested amount
	ErrAmountMismatch = errors.New("verified amount does not match")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the merchant ID is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid merchant ID")
)
