package staking

import "math/big"

// Plan describes a staking product selectable at stake time. Plans form an
// append-only catalog: once created the identifier and lock duration are
// immutable, while the rate, bonus and active flag may be retuned by the
// administrator. Accrual always reads the plan terms current at computation
// time; positions opened under an earlier rate are deliberately exposed to
// later updates.
type Plan struct {
	ID           uint64
	Name         string
	LockDuration uint64 // seconds principal stays locked after staking
	RateBps      uint64 // simple annual interest in basis points
	BonusBps     uint64 // completion bonus applied on unstake, basis points
	Active       bool
}

// Clone returns a copy of the plan safe to hand to callers.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Position is one participant's stake under one plan. Positions are addressed
// by (owner, per-owner sequential index) and never deleted; closing a position
// clears the active flag and leaves the record in place so historical indices
// stay stable.
type Position struct {
	Owner       [20]byte
	Index       uint64
	PlanID      uint64
	Principal   *big.Int
	CreatedAt   uint64
	LockUntil   uint64 // fixed at creation, unaffected by later plan updates
	LastSettled uint64
	Active      bool
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Principal != nil {
		clone.Principal = new(big.Int).Set(p.Principal)
	}
	return &clone
}

// PositionInfo exposes position state for account queries.
type PositionInfo struct {
	Index         uint64   `json:"index"`
	PlanID        uint64   `json:"planId"`
	Principal     *big.Int `json:"principal"`
	CreatedAt     uint64   `json:"createdAt"`
	LockUntil     uint64   `json:"lockUntil"`
	LastSettled   uint64   `json:"lastSettled"`
	PendingReward *big.Int `json:"pendingReward"`
	Active        bool     `json:"active"`
}

// Vault captures the global accounting state shared by every operation: the
// aggregate staked principal, the cumulative rewards ever paid, the reward
// reserve balance and the administrator capability.
type Vault struct {
	TotalStaked  *big.Int
	RewardsPaid  *big.Int
	Reserve      *big.Int
	Owner        [20]byte
	PendingOwner [20]byte
}

// NewVault returns a vault with all counters initialised to zero and the
// provided administrator in control.
func NewVault(owner [20]byte) *Vault {
	return &Vault{
		TotalStaked: big.NewInt(0),
		RewardsPaid: big.NewInt(0),
		Reserve:     big.NewInt(0),
		Owner:       owner,
	}
}

// Normalize backfills nil counters on a freshly decoded vault.
func (v *Vault) Normalize() *Vault {
	if v.TotalStaked == nil {
		v.TotalStaked = big.NewInt(0)
	}
	if v.RewardsPaid == nil {
		v.RewardsPaid = big.NewInt(0)
	}
	if v.Reserve == nil {
		v.Reserve = big.NewInt(0)
	}
	return v
}

// Stats summarises the aggregate counters for read-only queries.
type Stats struct {
	TotalStaked *big.Int `json:"totalStaked"`
	RewardsPaid *big.Int `json:"rewardsPaid"`
	Reserve     *big.Int `json:"reserve"`
}
