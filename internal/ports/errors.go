package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Analysis Errors
	ErrDataUnavailable      = errors.New("required market data is unavailable")
	ErrInvalidDirection     = errors.New("trade direction must be long or short")
	ErrInvalidTimeframe     = errors.New("unsupported timeframe")
	ErrIndicatorComputation = errors.New("indicator computation failed")

	// Exchange Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")
	ErrInvalidSymbol        = errors.New("symbol is not listed on the exchange")

	// Sentiment Source Errors
	ErrSentimentUnavailable = errors.New("sentiment source is unavailable")

	// Cache Errors
	ErrCacheMiss        = errors.New("cache miss")
	ErrCacheUnavailable = errors.New("cache is unavailable")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)
