package domain

import "errors"

var (
	// Money errors
	ErrCurrencyMismatch = errors.New("operands have different currencies")
	ErrInvalidAmount    = errors.New("amount must be positive")

	// Pricing errors
	ErrAmbiguousRule = errors.New("multiple charge rules match at equal priority")

	// Limit errors
	ErrLimitExceeded = errors.New("movement exceeds an active transfer limit")
	ErrLimitNotFound = errors.New("transfer limit not found")

	// Ledger errors
	ErrUnbalanced         = errors.New("batch debits do not equal credits")
	ErrUnknownAccount     = errors.New("account not found")
	ErrDuplicateReference = errors.New("batch reference already posted")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrBatchReversed      = errors.New("batch is already reversed")
	ErrEmptyBatch         = errors.New("batch has no lines")
	ErrMixedSides         = errors.New("journal line must carry a debit or a credit, not both")

	// Accrual errors
	ErrAlreadyAccrued   = errors.New("interest already accrued for this date")
	ErrInvalidTierTable = errors.New("tier table must be contiguous from zero")

	// Movement errors
	ErrMovementNotFound = errors.New("movement not found")
	ErrRiskRejected     = errors.New("movement rejected by risk score")
	ErrSameAccount      = errors.New("cannot move money to the same account")
)
