package quote

import (
	"errors"
	"fmt"

	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
)

var (
	ErrUnsupportedChain       = errors.New("unsupported chain")
	ErrTokenNotFound          = errors.New("token not found")
	ErrUnsupportedChainFamily = errors.New("unsupported chain family")
	ErrValidationFailed       = errors.New("validation failed")
	ErrMalformedAmount        = fees.ErrMalformedAmount

	// ErrUpstreamUnavailable marks a failed live pricing call. Strategies
	// recover from it with mock pricing; it only shows up in logs.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error is a typed failure with a human readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
