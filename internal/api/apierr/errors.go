package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/playerauction-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes. Callers branch on these: a BID_TOO_LOW should never
// be retried without a new amount, while AUCTION_NOT_EXPIRED can be
// retried once the deadline passes.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotAuthorized     = "NOT_AUTHORIZED"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeAuctionNotFound   = "AUCTION_NOT_FOUND"
	CodeAlreadyAuctioned  = "ALREADY_AUCTIONED"
	CodeAuctionExpired    = "AUCTION_EXPIRED"
	CodeAuctionNotExpired = "AUCTION_NOT_EXPIRED"
	CodeAuctionEnded      = "AUCTION_ENDED"
	CodeBidTooLow         = "BID_TOO_LOW"
	CodeAmountMismatch    = "AMOUNT_MISMATCH"
	CodeNoBalanceOwed     = "NO_BALANCE_OWED"
	CodeTransferFailed    = "TRANSFER_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrNotAuthorized):
		return &httpError{http.StatusForbidden, APIError{CodeNotAuthorized, "Only the admin can perform this action"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrAuctionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAuctionNotFound, "Auction not found"}}
	case errors.Is(err, model.ErrNegativePrice):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidArgument, "Base price must not be negative"}}
	case errors.Is(err, model.ErrInvalidDuration):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidArgument, "Auction duration must be positive"}}
	case errors.Is(err, model.ErrAlreadyAuctioned):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAuctioned, "Player is already under auction"}}
	case errors.Is(err, model.ErrAuctionExpired):
		return &httpError{http.StatusConflict, APIError{CodeAuctionExpired, "Auction deadline has passed"}}
	case errors.Is(err, model.ErrAuctionNotExpired):
		return &httpError{http.StatusConflict, APIError{CodeAuctionNotExpired, "Auction deadline has not passed"}}
	case errors.Is(err, model.ErrAuctionEnded):
		return &httpError{http.StatusConflict, APIError{CodeAuctionEnded, "Auction has already ended"}}
	case errors.Is(err, model.ErrBidTooLow):
		return &httpError{http.StatusConflict, APIError{CodeBidTooLow, "Bid must exceed the highest bid and meet the base price"}}
	case errors.Is(err, model.ErrAmountMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodeAmountMismatch, "Attached funds must equal the declared bid amount"}}
	case errors.Is(err, model.ErrNoBalanceOwed):
		return &httpError{http.StatusNotFound, APIError{CodeNoBalanceOwed, "No balance owed for this account and auction"}}
	case errors.Is(err, model.ErrTransferFailed):
		return &httpError{http.StatusBadGateway, APIError{CodeTransferFailed, "Funds transfer failed"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error for requests missing
// a caller account
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeNotAuthorized, "Caller account required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
