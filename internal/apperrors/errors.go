package apperrors

import "errors"

// Lookup errors indicate that a requested resource does not exist.
var (
	// ErrSourceNotFound indicates that no source with the given ID is configured.
	ErrSourceNotFound = errors.New("source not found")

	// ErrRangeNotFound indicates that the worksheet or range does not exist in the document.
	ErrRangeNotFound = errors.New("range not found")

	// ErrTransportNotFound indicates that a source names a transport that is not registered.
	ErrTransportNotFound = errors.New("transport not found")

	// ErrQuoteNotFound indicates that the FX provider returned no usable close.
	ErrQuoteNotFound = errors.New("fx quote not found")
)

// Recoverable failures. None of these abort a report; they degrade it.
var (
	// ErrTransportUnavailable indicates that the spreadsheet or FX service could not be reached
	// or refused the request.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrSchemaMismatch indicates that a required column could not be located.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrConfiguration indicates a configuration fault such as an unknown source id
	// or a missing range.
	ErrConfiguration = errors.New("configuration error")
)

// Request errors represent invalid input at the API boundary.
var (
	// ErrInvalidSourceID indicates that a source id is not well-formed.
	ErrInvalidSourceID = errors.New("invalid source id")

	// ErrEmptyRows indicates that an append request carried no rows.
	ErrEmptyRows = errors.New("rows cannot be empty")

	// ErrInvalidCurrency indicates that a currency code is not a known ISO 4217 code.
	ErrInvalidCurrency = errors.New("invalid currency code")
)
