package server

import (
	"errors"
	"net/http"

	"github.com/aman-zulfiqar/multichain-swap/internal/ledger"
	"github.com/aman-zulfiqar/multichain-swap/internal/quote"
	"github.com/labstack/echo/v4"
)

// JSONErrorHandler renders every unhandled error, including echo's own 404
// and 405, as a failed envelope.
func JSONErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, Envelope{Error: http.StatusText(he.Code)})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, Envelope{Error: "internal server error"})
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, quote.ErrUnsupportedChain), errors.Is(err, quote.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, quote.ErrMalformedAmount),
		errors.Is(err, quote.ErrValidationFailed),
		errors.Is(err, ledger.ErrInvalidRecord),
		errors.Is(err, ledger.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, quote.ErrUnsupportedChainFamily):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing text for err. Unknown errors are
// not echoed back.
func messageFor(err error, fallback string) string {
	var qe *quote.Error
	if errors.As(err, &qe) {
		return qe.Message
	}
	if statusFor(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return fallback
}
