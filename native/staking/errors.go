package staking

import "errors"

var (
	ErrNilState         = errors.New("staking: state not configured")
	ErrNilPort          = errors.New("staking: token port not configured")
	ErrInvalidAmount    = errors.New("staking: amount must be positive")
	ErrBelowMinimum     = errors.New("staking: amount below minimum stake")
	ErrPlanNotFound     = errors.New("staking: plan not found")
	ErrPlanInactive     = errors.New("staking: plan inactive")
	ErrInvalidPlan      = errors.New("staking: invalid plan")
	ErrRateTooHigh      = errors.New("staking: rate bps too high")
	ErrBonusTooHigh     = errors.New("staking: bonus bps too high")
	ErrPositionNotFound = errors.New("staking: position not found")
	ErrPositionClosed   = errors.New("staking: position closed")
	ErrStillLocked      = errors.New("staking: position still locked")
	ErrNothingToClaim   = errors.New("staking: nothing to claim")
	ErrReserveDepleted  = errors.New("staking: reward reserve depleted")
	ErrReserveExceeded  = errors.New("staking: amount exceeds reserve balance")
	ErrZeroPayout       = errors.New("staking: zero payout")
	ErrNilRecipient     = errors.New("staking: recipient not set")
	ErrUnauthorized     = errors.New("staking: unauthorized")
	ErrReentrantCall    = errors.New("staking: reentrant call rejected")
	ErrNotPendingOwner  = errors.New("staking: caller is not pending owner")

	ErrAlreadyInitialized = errors.New("staking: ledger already initialized")
)
