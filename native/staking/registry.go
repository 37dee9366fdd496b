package staking

import (
	"fmt"
	"strings"

	"stakevault/core/events"
	nativecommon "stakevault/native/common"
)

const (
	maxRateBps  = 100_000
	maxBonusBps = 10_000
)

type registryState interface {
	PlanGet(id uint64) (*Plan, bool, error)
	PlanPut(plan *Plan) error
	PlanCount() (uint64, error)
	PlanSetCount(count uint64) error
	VaultGet() (*Vault, error)
}

// Registry manages the append-only catalog of staking plans. Plans are never
// deleted; retiring a product means flipping its active flag off. Rate and
// bonus updates apply prospectively: accrual always reads the terms current at
// computation time, so unclaimed positions are exposed to later retunes.
type Registry struct {
	state   registryState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewRegistry creates a plan registry backed by the provided state.
func NewRegistry(state registryState) *Registry {
	return &Registry{state: state, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast catalog updates.
// Passing nil resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

func (r *Registry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

// CreatePlan appends a new plan to the catalog and returns it. Only the
// administrator may create plans; the identifier is the next catalog index.
func (r *Registry) CreatePlan(caller [20]byte, name string, lockDuration, rateBps, bonusBps uint64, active bool) (*Plan, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := r.requireOwner(caller); err != nil {
		return nil, err
	}
	plan := &Plan{
		Name:         strings.TrimSpace(name),
		LockDuration: lockDuration,
		RateBps:      rateBps,
		BonusBps:     bonusBps,
		Active:       active,
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	count, err := r.state.PlanCount()
	if err != nil {
		return nil, err
	}
	plan.ID = count
	if err := r.state.PlanPut(plan); err != nil {
		return nil, err
	}
	if err := r.state.PlanSetCount(count + 1); err != nil {
		return nil, err
	}
	r.emit(events.PlanCreated{
		PlanID:       plan.ID,
		Name:         plan.Name,
		LockDuration: plan.LockDuration,
		RateBps:      plan.RateBps,
		BonusBps:     plan.BonusBps,
		Active:       plan.Active,
	})
	return plan.Clone(), nil
}

// UpdatePlan retunes the mutable fields of an existing plan. The identifier,
// name and lock duration are immutable after creation.
func (r *Registry) UpdatePlan(caller [20]byte, id, rateBps, bonusBps uint64, active bool) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	if err := r.requireOwner(caller); err != nil {
		return err
	}
	if rateBps > maxRateBps {
		return fmt.Errorf("%w: %d", ErrRateTooHigh, rateBps)
	}
	if bonusBps > maxBonusBps {
		return fmt.Errorf("%w: %d", ErrBonusTooHigh, bonusBps)
	}
	plan, ok, err := r.state.PlanGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrPlanNotFound, id)
	}
	plan.RateBps = rateBps
	plan.BonusBps = bonusBps
	plan.Active = active
	if err := r.state.PlanPut(plan); err != nil {
		return err
	}
	r.emit(events.PlanUpdated{
		PlanID:   plan.ID,
		RateBps:  plan.RateBps,
		BonusBps: plan.BonusBps,
		Active:   plan.Active,
	})
	return nil
}

// GetPlan retrieves a plan by its catalog index.
func (r *Registry) GetPlan(id uint64) (*Plan, bool) {
	if r == nil || r.state == nil {
		return nil, false
	}
	plan, ok, err := r.state.PlanGet(id)
	if err != nil || !ok {
		return nil, false
	}
	return plan.Clone(), true
}

// Plans returns the full catalog in creation order.
func (r *Registry) Plans() ([]Plan, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	count, err := r.state.PlanCount()
	if err != nil {
		return nil, err
	}
	plans := make([]Plan, 0, count)
	for id := uint64(0); id < count; id++ {
		plan, ok, err := r.state.PlanGet(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, id)
		}
		plans = append(plans, *plan.Clone())
	}
	return plans, nil
}

func (r *Registry) requireOwner(caller [20]byte) error {
	vault, err := r.state.VaultGet()
	if err != nil {
		return err
	}
	if vault == nil || caller != vault.Owner {
		return ErrUnauthorized
	}
	return nil
}

func (r *Registry) emit(event events.Event) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(event)
}

func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidPlan)
	}
	if p.RateBps > maxRateBps {
		return fmt.Errorf("%w: %d", ErrRateTooHigh, p.RateBps)
	}
	if p.BonusBps > maxBonusBps {
		return fmt.Errorf("%w: %d", ErrBonusTooHigh, p.BonusBps)
	}
	return nil
}
