package domain

import "errors"

var (
	// ErrNotAConsumerProduct is returned when the input is not a scorable product
	ErrNotAConsumerProduct = errors.New("not a consumer product")

	// ErrUnscorableCategory is returned when attributes claim a consumer product
	// but carry no recognized category
	ErrUnscorableCategory = errors.New("unscorable product category")

	// ErrCollaboratorFailure is returned when attribute extraction or the
	// safety verdict call fails
	ErrCollaboratorFailure = errors.New("analysis collaborator failed")

	// ErrConfiguration is returned when the analysis cannot run at all
	ErrConfiguration = errors.New("analysis not configured")

	// ErrQuotaExceeded is returned when a client has used up its request quota
	ErrQuotaExceeded = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrQuotaMiss is returned by quota stores for keys with no live usage
	ErrQuotaMiss = errors.New("quota key not found")
)

// DefaultRejectionMessage is surfaced when extraction rejects an item without a reason
const DefaultRejectionMessage = "The item is not a recognized consumer product."

// RejectionError carries the reason an input was rejected as a non-product.
// It matches ErrNotAConsumerProduct with errors.Is.
type RejectionError struct {
	Reason string
}

// NewRejectionError builds a RejectionError, falling back to the default message
func NewRejectionError(reason *string) *RejectionError {
	if reason == nil || *reason == "" {
		return &RejectionError{Reason: DefaultRejectionMessage}
	}
	return &RejectionError{Reason: *reason}
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrNotAConsumerProduct
}
