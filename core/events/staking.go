package events

import (
	"math/big"
	"strconv"

	"stakevault/core/types"
	"stakevault/crypto"
)

const (
	// TypeStakeCreated is emitted when a new stake position is opened.
	TypeStakeCreated = "staking.created"
	// TypeStakeWithdrawn captures the close of a position and its final payout.
	TypeStakeWithdrawn = "staking.withdrawn"
	// TypeRewardClaimed is emitted when accrued rewards are paid without
	// touching principal.
	TypeRewardClaimed = "staking.rewardsClaimed"
	// TypeReserveShortfall signals that reserve depletion limited a payout.
	TypeReserveShortfall = "staking.reserveShortfall"
	// TypePlanCreated is emitted when a new staking plan enters the catalog.
	TypePlanCreated = "staking.plan.created"
	// TypePlanUpdated is emitted when an existing plan's terms change.
	TypePlanUpdated = "staking.plan.updated"
	// TypeReserveFunded captures an administrator reserve top-up.
	TypeReserveFunded = "staking.reserve.funded"
	// TypeReserveWithdrawn captures an administrator emergency withdrawal.
	TypeReserveWithdrawn = "staking.reserve.withdrawn"
	// TypeOwnershipProposed is emitted when a handover is proposed.
	TypeOwnershipProposed = "staking.owner.proposed"
	// TypeOwnershipAccepted is emitted when the pending owner accepts control.
	TypeOwnershipAccepted = "staking.owner.accepted"
)

// StakeCreated captures a freshly opened position.
type StakeCreated struct {
	Owner     [20]byte
	Index     uint64
	PlanID    uint64
	Principal *big.Int
	LockUntil uint64
}

func (StakeCreated) EventType() string { return TypeStakeCreated }

// Event converts the structured payload into a broadcastable event.
func (e StakeCreated) Event() *types.Event {
	attrs := map[string]string{
		"owner":     crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
		"index":     strconv.FormatUint(e.Index, 10),
		"planId":    strconv.FormatUint(e.PlanID, 10),
		"principal": formatAmount(e.Principal),
	}
	if e.LockUntil > 0 {
		attrs["lockUntil"] = strconv.FormatUint(e.LockUntil, 10)
	}
	return &types.Event{Type: TypeStakeCreated, Attributes: attrs}
}

// StakeWithdrawn captures a closed position with its principal and the reward
// actually paid alongside the reward owed at close time.
type StakeWithdrawn struct {
	Owner      [20]byte
	Index      uint64
	Principal  *big.Int
	RewardPaid *big.Int
	RewardOwed *big.Int
}

func (StakeWithdrawn) EventType() string { return TypeStakeWithdrawn }

func (e StakeWithdrawn) Event() *types.Event {
	attrs := map[string]string{
		"owner":      crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
		"index":      strconv.FormatUint(e.Index, 10),
		"principal":  formatAmount(e.Principal),
		"rewardPaid": formatAmount(e.RewardPaid),
	}
	if e.RewardOwed != nil && e.RewardPaid != nil && e.RewardOwed.Cmp(e.RewardPaid) > 0 {
		attrs["rewardOwed"] = formatAmount(e.RewardOwed)
	}
	return &types.Event{Type: TypeStakeWithdrawn, Attributes: attrs}
}

// RewardClaimed captures a reward payout on a still-open position.
type RewardClaimed struct {
	Owner       [20]byte
	Index       uint64
	Paid        *big.Int
	Owed        *big.Int
	LastSettled uint64
}

func (RewardClaimed) EventType() string { return TypeRewardClaimed }

func (e RewardClaimed) Event() *types.Event {
	attrs := map[string]string{
		"owner": crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
		"index": strconv.FormatUint(e.Index, 10),
		"paid":  formatAmount(e.Paid),
	}
	if e.Owed != nil && e.Paid != nil && e.Owed.Cmp(e.Paid) > 0 {
		attrs["owed"] = formatAmount(e.Owed)
	}
	if e.LastSettled > 0 {
		attrs["lastSettled"] = strconv.FormatUint(e.LastSettled, 10)
	}
	return &types.Event{Type: TypeRewardClaimed, Attributes: attrs}
}

// ReserveShortfall indicates the reserve could not cover the full owed reward.
type ReserveShortfall struct {
	Owner     [20]byte
	Index     uint64
	Owed      *big.Int
	Available *big.Int
}

func (ReserveShortfall) EventType() string { return TypeReserveShortfall }

func (e ReserveShortfall) Event() *types.Event {
	attrs := map[string]string{
		"owner":     crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
		"index":     strconv.FormatUint(e.Index, 10),
		"owed":      formatAmount(e.Owed),
		"available": formatAmount(e.Available),
	}
	return &types.Event{Type: TypeReserveShortfall, Attributes: attrs}
}

// PlanCreated captures a new staking plan entering the catalog.
type PlanCreated struct {
	PlanID       uint64
	Name         string
	LockDuration uint64
	RateBps      uint64
	BonusBps     uint64
	Active       bool
}

func (PlanCreated) EventType() string { return TypePlanCreated }

func (e PlanCreated) Event() *types.Event {
	attrs := map[string]string{
		"planId":       strconv.FormatUint(e.PlanID, 10),
		"name":         e.Name,
		"lockDuration": strconv.FormatUint(e.LockDuration, 10),
		"rateBps":      strconv.FormatUint(e.RateBps, 10),
		"bonusBps":     strconv.FormatUint(e.BonusBps, 10),
		"active":       strconv.FormatBool(e.Active),
	}
	return &types.Event{Type: TypePlanCreated, Attributes: attrs}
}

// PlanUpdated captures a change to an existing plan's terms.
type PlanUpdated struct {
	PlanID   uint64
	RateBps  uint64
	BonusBps uint64
	Active   bool
}

func (PlanUpdated) EventType() string { return TypePlanUpdated }

func (e PlanUpdated) Event() *types.Event {
	attrs := map[string]string{
		"planId":   strconv.FormatUint(e.PlanID, 10),
		"rateBps":  strconv.FormatUint(e.RateBps, 10),
		"bonusBps": strconv.FormatUint(e.BonusBps, 10),
		"active":   strconv.FormatBool(e.Active),
	}
	return &types.Event{Type: TypePlanUpdated, Attributes: attrs}
}

// ReserveFunded captures an administrator top-up of the reward reserve.
type ReserveFunded struct {
	Funder  [20]byte
	Amount  *big.Int
	Balance *big.Int
}

func (ReserveFunded) EventType() string { return TypeReserveFunded }

func (e ReserveFunded) Event() *types.Event {
	attrs := map[string]string{
		"funder":  crypto.MustNewAddress(crypto.VaultPrefix, e.Funder[:]).String(),
		"amount":  formatAmount(e.Amount),
		"balance": formatAmount(e.Balance),
	}
	return &types.Event{Type: TypeReserveFunded, Attributes: attrs}
}

// ReserveWithdrawn captures an emergency withdrawal from the reward reserve.
type ReserveWithdrawn struct {
	Recipient [20]byte
	Amount    *big.Int
	Balance   *big.Int
}

func (ReserveWithdrawn) EventType() string { return TypeReserveWithdrawn }

func (e ReserveWithdrawn) Event() *types.Event {
	attrs := map[string]string{
		"recipient": crypto.MustNewAddress(crypto.VaultPrefix, e.Recipient[:]).String(),
		"amount":    formatAmount(e.Amount),
		"balance":   formatAmount(e.Balance),
	}
	return &types.Event{Type: TypeReserveWithdrawn, Attributes: attrs}
}

// OwnershipProposed captures the first half of an administrator handover.
type OwnershipProposed struct {
	Owner   [20]byte
	Pending [20]byte
}

func (OwnershipProposed) EventType() string { return TypeOwnershipProposed }

func (e OwnershipProposed) Event() *types.Event {
	attrs := map[string]string{
		"owner":   crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
		"pending": crypto.MustNewAddress(crypto.VaultPrefix, e.Pending[:]).String(),
	}
	return &types.Event{Type: TypeOwnershipProposed, Attributes: attrs}
}

// OwnershipAccepted captures a completed administrator handover.
type OwnershipAccepted struct {
	Previous [20]byte
	Owner    [20]byte
}

func (OwnershipAccepted) EventType() string { return TypeOwnershipAccepted }

func (e OwnershipAccepted) Event() *types.Event {
	attrs := map[string]string{
		"previous": crypto.MustNewAddress(crypto.VaultPrefix, e.Previous[:]).String(),
		"owner":    crypto.MustNewAddress(crypto.VaultPrefix, e.Owner[:]).String(),
	}
	return &types.Event{Type: TypeOwnershipAccepted, Attributes: attrs}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
