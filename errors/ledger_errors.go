package errors

import (
	"errors"

	"github.com/ch0002ic/creatorcoin-ai/jsonx"
)

// LedgerErrorCode represents standardized error codes for ledger operations
type LedgerErrorCode string

const (
	// General errors
	ErrCodeInternal LedgerErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeInvalidAddress  = "invalid_address"
	ErrCodeInvalidAmount   = "invalid_amount"
	ErrCodeInvalidMetadata = "invalid_metadata"

	// Business logic errors
	ErrCodeInsufficientFunds   = "insufficient_funds"
	ErrCodeInvalidOperation    = "invalid_operation"
	ErrCodeUnsupportedCurrency = "unsupported_currency"
	ErrCodeAlreadyFinalized    = "already_finalized"
	ErrCodeNotFound            = "not_found"

	// System errors
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeCooldownActive = "cooldown_active"
)

// LedgerError represents a standardized ledger error
type LedgerError struct {
	Code    LedgerErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	err, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInternal            = "Server error, please try again"
	ErrMsgInvalidRequest      = "Request format is invalid"
	ErrMsgInvalidAddress      = "Account address is invalid"
	ErrMsgInvalidAmount       = "Amount is invalid or zero"
	ErrMsgInsufficientFunds   = "Not enough spendable balance"
	ErrMsgUnsupportedCurrency = "Currency is not supported for this operation"
	ErrMsgStakeNotFound       = "Stake could not be found"
	ErrMsgTransactionNotFound = "Transaction could not be found"
	ErrMsgAlreadyFinalized    = "Stake has already been finalized"
	ErrMsgNotYetMatured       = "Stake has not reached maturity"
	ErrMsgSelfTransfer        = "Sender and recipient must differ"
	ErrMsgRateLimited         = "Too many requests, please slow down"
	ErrMsgCooldownActive      = "Funding cooldown is still active"
	ErrMsgRequestBodyTooLarge = "Request body exceeds maximum allowed size (%d bytes)"
	ErrMsgShortTextTooLong    = "Short text length exceeds maximum (%d) for field '%s'"
	ErrMsgLongTextTooLong     = "Long text length exceeds maximum (%d) for field '%s'"
	ErrMsgInvalidCharacters   = "Field '%s' contains invalid characters"
)

// NewError creates a new LedgerError and returns it as error interface
func NewError(code LedgerErrorCode, message string) error {
	return &LedgerError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the LedgerErrorCode from err, unwrapping as needed.
// Returns ErrCodeInternal for non-ledger errors.
func CodeOf(err error) LedgerErrorCode {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given ledger error code.
func IsCode(err error, code LedgerErrorCode) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
