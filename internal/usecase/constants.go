package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// StaleReservationAge is how long a movement may sit in a non-terminal
	// state before the recovery sweep releases its reservation
	StaleReservationAge = 15 * time.Minute

	// ReversalRefPrefix prefixes the batch reference of a reversal posting
	ReversalRefPrefix = "rev:"

	// AccrualRefPrefix prefixes the batch reference of an accrual posting
	AccrualRefPrefix = "acr:"
)
