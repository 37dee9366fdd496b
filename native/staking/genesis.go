package staking

import (
	"fmt"
	"strings"
)

type genesisState interface {
	VaultGet() (*Vault, error)
	VaultPut(vault *Vault) error
	PlanPut(plan *Plan) error
	PlanCount() (uint64, error)
	PlanSetCount(count uint64) error
}

// DefaultGenesisPlans returns the seed catalog every deployment starts with:
// a no-lock low-rate product and a one-year locked product with a completion
// bonus.
func DefaultGenesisPlans() []Plan {
	return []Plan{
		{Name: "flexible", LockDuration: 0, RateBps: 500, BonusBps: 0, Active: true},
		{Name: "locked-365", LockDuration: 365 * 86400, RateBps: 1500, BonusBps: 200, Active: true},
	}
}

// Initialize seeds an empty ledger state with the administrator and the
// initial plan catalog. Passing no plans seeds the defaults. Initializing an
// already-seeded state is rejected.
func Initialize(state genesisState, owner [20]byte, plans []Plan) error {
	if state == nil {
		return ErrNilState
	}
	if owner == ([20]byte{}) {
		return ErrNilRecipient
	}
	existing, err := state.VaultGet()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}
	if len(plans) == 0 {
		plans = DefaultGenesisPlans()
	}
	if len(plans) < 2 {
		return fmt.Errorf("%w: at least two seed plans required", ErrInvalidPlan)
	}
	if err := state.VaultPut(NewVault(owner)); err != nil {
		return err
	}
	for i := range plans {
		plan := plans[i].Clone()
		plan.ID = uint64(i)
		plan.Name = strings.TrimSpace(plan.Name)
		if err := validatePlan(plan); err != nil {
			return err
		}
		if err := state.PlanPut(plan); err != nil {
			return err
		}
	}
	return state.PlanSetCount(uint64(len(plans)))
}
