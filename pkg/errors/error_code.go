package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTakeProfit    ErrorCode = 103
	ErrCodeInvalidStopLoss      ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeInvalidThreshold     ErrorCode = 112
	ErrCodeInvalidStdDev        ErrorCode = 113
	ErrCodeInvalidFilter        ErrorCode = 118

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDataIntegrity         ErrorCode = 206

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeUnsupportedStrategy ErrorCode = 403

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 602
	ErrCodeBacktestWriteFailed ErrorCode = 609
)

// parameterCodes groups every code that signals an out-of-domain parameter.
var parameterCodes = map[ErrorCode]struct{}{
	ErrCodeInvalidParameter:     {},
	ErrCodeInvalidConfiguration: {},
	ErrCodeInvalidTakeProfit:    {},
	ErrCodeInvalidStopLoss:      {},
	ErrCodeInvalidPeriod:        {},
	ErrCodeInvalidThreshold:     {},
	ErrCodeInvalidStdDev:        {},
	ErrCodeInvalidFilter:        {},
	ErrCodeStrategyConfigError:  {},
	ErrCodeBacktestConfigError:  {},
}
