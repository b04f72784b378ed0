package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that no holding exists for the given ticker.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrSnapshotNotFound indicates that no snapshot exists for the given date.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrOverrideNotFound indicates that no manual price override exists for the given ticker.
	ErrOverrideNotFound = errors.New("price override not found")

	// ErrSettingNotFound indicates that a system setting key has never been written.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sell cannot be completed because
	// the holding does not carry enough units. The ledger treats such a call
	// as a guarded no-op; this error is the HTTP boundary's translation of it.
	ErrInsufficientQuantity = errors.New("insufficient quantity for sale")

	// ErrInvalidTicker indicates an empty or malformed ticker symbol.
	ErrInvalidTicker = errors.New("invalid ticker symbol")

	// ErrNonPositiveAmount indicates that a quantity, price or amount field
	// must be a positive number and is not.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrNothingImported indicates that every line of a bulk import was
	// malformed or the input was empty.
	ErrNothingImported = errors.New("no valid import lines")

	// ErrMalformedBackup indicates that an uploaded portfolio backup does not
	// have an array-shaped holdings field.
	ErrMalformedBackup = errors.New("malformed portfolio backup")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data, as opposed to missing entities or validation issues.
var (
	ErrFailedToLoadPortfolio  = errors.New("failed to load portfolio")
	ErrFailedToSavePortfolio  = errors.New("failed to save portfolio")
	ErrFailedToLoadHistory    = errors.New("failed to load portfolio history")
	ErrFailedToLoadOverrides  = errors.New("failed to load price overrides")
	ErrFailedToRefreshQuotes  = errors.New("failed to refresh quotes")
	ErrFailedToLoadSettings   = errors.New("failed to load settings")
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
	ErrQuoteUnavailable       = errors.New("quote unavailable")
	ErrProviderNotConfigured  = errors.New("quote provider not configured")
)
