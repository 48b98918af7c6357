package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidPhoneNumber = errors.New("invalid phone number: expected format 0796286263")
	ErrCodeAlreadyUsed    = errors.New("activation code already used")
	ErrCodeNotFound       = errors.New("activation code not found")
	ErrCodeExpired        = errors.New("activation code expired")
	ErrCodeCollision      = errors.New("activation code collision")
	ErrPurchaseNotPending = errors.New("purchase is not pending")
	ErrAlreadyNotified    = errors.New("notification already sent for this code")
	ErrNotAllowListed     = errors.New("identity is not on the admin allow-list")
	ErrBadCredentials     = errors.New("invalid username or password")
	ErrRateLimited        = errors.New("too many purchase attempts")

	// Infra-boundary errors
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")
)
