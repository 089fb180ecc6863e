// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, periods, thresholds and filters
//   - Data/Resource errors (200-299): Data not found, query failures, integrity violations
//   - Indicator errors (300-399): Technical indicator calculation errors
//   - Strategy errors (400-499): Unknown strategies and strategy configuration errors
//   - Backtest errors (600-699): Backtest configuration and result export errors
//   - Screener errors (900-999): Per-symbol screener failures
//
// The engine surfaces four error kinds to its callers:
//
//	InsufficientDataError  not enough bars for an indicator or strategy lookback
//	InvalidStrategyError   unknown strategy identifier (ErrCodeUnsupportedStrategy)
//	InvalidParameterError  out-of-domain numeric parameter (ErrCodeInvalidParameter and friends)
//	DataIntegrityError     non-monotonic, duplicate or malformed bars (ErrCodeDataIntegrity)
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//
//	// Check the error kind
//	if errors.IsInvalidParameter(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// hasCodeInChain walks the whole chain, not only the outermost *Error.
func hasCodeInChain(err error, match func(ErrorCode) bool) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if match(e.Code) {
			return true
		}

		err = e.Cause
	}

	return false
}

// NewInvalidStrategyError reports an unknown strategy identifier.
func NewInvalidStrategyError(id string) *Error {
	return Newf(ErrCodeUnsupportedStrategy, "unknown strategy %q", id)
}

// IsInvalidStrategy reports whether err carries an unknown strategy error.
func IsInvalidStrategy(err error) bool {
	return hasCodeInChain(err, func(code ErrorCode) bool {
		return code == ErrCodeUnsupportedStrategy
	})
}

// IsInvalidParameter reports whether err carries any out-of-domain parameter code.
func IsInvalidParameter(err error) bool {
	return hasCodeInChain(err, func(code ErrorCode) bool {
		_, ok := parameterCodes[code]

		return ok
	})
}

// NewDataIntegrityErrorf reports a malformed bar sequence.
func NewDataIntegrityErrorf(format string, args ...any) *Error {
	return Newf(ErrCodeDataIntegrity, format, args...)
}

// IsDataIntegrity reports whether err carries a data integrity error.
func IsDataIntegrity(err error) bool {
	return hasCodeInChain(err, func(code ErrorCode) bool {
		return code == ErrCodeDataIntegrity
	})
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation (e.g., indicator calculations requiring a minimum period).
type InsufficientDataError struct {
	Indicator string // Indicator or strategy that needed the data
	Period    int    // Configured period of the indicator
	Required  int    // Minimum data points required
	Actual    int    // Actual data points available
	Symbol    string // Optional: symbol context
	Message   string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError with a standard message.
func NewInsufficientDataError(indicator string, period, required, actual int, symbol string) *InsufficientDataError {
	message := fmt.Sprintf("insufficient data for %s(%d): required %d bars, got %d", indicator, period, required, actual)
	if symbol != "" {
		message = fmt.Sprintf("%s for symbol %s", message, symbol)
	}

	return &InsufficientDataError{
		Indicator: indicator,
		Period:    period,
		Required:  required,
		Actual:    actual,
		Symbol:    symbol,
		Message:   message,
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// WithSymbol returns a copy of the error bound to a symbol.
func (e *InsufficientDataError) WithSymbol(symbol string) *InsufficientDataError {
	return NewInsufficientDataError(e.Indicator, e.Period, e.Required, e.Actual, symbol)
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
