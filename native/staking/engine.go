package staking

import (
	"fmt"
	"math/big"
	"time"

	"stakevault/core/events"
	nativecommon "stakevault/native/common"
)

const moduleName = "staking"

// defaultMinimumStake is one whole token at 18 fractional decimals.
var defaultMinimumStake = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type engineState interface {
	PlanGet(id uint64) (*Plan, bool, error)
	PositionGet(owner [20]byte, index uint64) (*Position, bool, error)
	PositionPut(position *Position) error
	PositionCount(owner [20]byte) (uint64, error)
	PositionSetCount(owner [20]byte, count uint64) error
	VaultGet() (*Vault, error)
	VaultPut(vault *Vault) error
}

// Engine orchestrates the stake, unstake and claim state transitions. Every
// mutating operation is one indivisible unit executed under a single-writer
// discipline: a busy flag rejects re-entrant invocation for the duration of
// each call, and the token port is invoked at the point where its failure
// still leaves the ledger untouched.
type Engine struct {
	state        engineState
	port         TokenPort
	emitter      events.Emitter
	pauses       nativecommon.PauseView
	nowFn        func() int64
	minimumStake *big.Int
	busy         bool
}

// NewEngine creates a staking engine with a no-op emitter and the default
// minimum stake of one whole token.
func NewEngine() *Engine {
	return &Engine{
		emitter:      events.NoopEmitter{},
		nowFn:        func() int64 { return time.Now().Unix() },
		minimumStake: new(big.Int).Set(defaultMinimumStake),
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetPort configures the token transfer port used to move the staked asset.
func (e *Engine) SetPort(port TokenPort) { e.port = port }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetMinimumStake overrides the minimum principal accepted by Stake. A nil or
// non-positive value restores the default.
func (e *Engine) SetMinimumStake(min *big.Int) {
	if e == nil {
		return
	}
	if min == nil || min.Sign() <= 0 {
		e.minimumStake = new(big.Int).Set(defaultMinimumStake)
		return
	}
	e.minimumStake = new(big.Int).Set(min)
}

// MinimumStake returns the minimum principal accepted by Stake.
func (e *Engine) MinimumStake() *big.Int {
	if e == nil || e.minimumStake == nil {
		return new(big.Int).Set(defaultMinimumStake)
	}
	return new(big.Int).Set(e.minimumStake)
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	ts := e.nowFn()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

// begin marks the engine busy for the duration of a mutating operation. Any
// nested entry while a call is in flight is rejected.
func (e *Engine) begin() error {
	if e.busy {
		return ErrReentrantCall
	}
	if e.state == nil {
		return ErrNilState
	}
	if e.port == nil {
		return ErrNilPort
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	e.busy = true
	return nil
}

func (e *Engine) end() { e.busy = false }

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// Stake pulls principal from the caller into custody and opens a new position
// under the given plan. The inbound transfer happens before any ledger
// mutation, so a port failure aborts the operation with no state change.
func (e *Engine) Stake(caller [20]byte, amount *big.Int, planID uint64) (*Position, error) {
	if e == nil {
		return nil, ErrNilState
	}
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount.Cmp(e.minimumStake) < 0 {
		return nil, fmt.Errorf("%w: minimum %s", ErrBelowMinimum, e.minimumStake)
	}
	plan, ok, err := e.state.PlanGet(planID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, planID)
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: %d", ErrPlanInactive, planID)
	}

	if err := e.port.TransferIn(caller, amount); err != nil {
		return nil, err
	}

	now := e.now()
	index, err := e.state.PositionCount(caller)
	if err != nil {
		return nil, err
	}
	position := &Position{
		Owner:       caller,
		Index:       index,
		PlanID:      planID,
		Principal:   cloneBigInt(amount),
		CreatedAt:   now,
		LockUntil:   now + plan.LockDuration,
		LastSettled: now,
		Active:      true,
	}
	if err := e.state.PositionPut(position); err != nil {
		return nil, err
	}
	if err := e.state.PositionSetCount(caller, index+1); err != nil {
		return nil, err
	}

	vault, err := e.loadVault()
	if err != nil {
		return nil, err
	}
	vault.TotalStaked = new(big.Int).Add(vault.TotalStaked, amount)
	if err := e.state.VaultPut(vault); err != nil {
		return nil, err
	}

	e.emit(events.StakeCreated{
		Owner:     caller,
		Index:     position.Index,
		PlanID:    planID,
		Principal: cloneBigInt(position.Principal),
		LockUntil: position.LockUntil,
	})
	return position.Clone(), nil
}

// Unstake closes a position after its lock has elapsed and pays out principal
// plus the accrued reward and completion bonus. When the reserve cannot cover
// the full reward the payout is capped at the reserve balance; principal is
// always returned in full. The returned amount is the total moved to the
// caller in the single outbound transfer.
func (e *Engine) Unstake(caller [20]byte, index uint64) (*big.Int, error) {
	if e == nil {
		return nil, ErrNilState
	}
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	position, plan, err := e.loadActivePosition(caller, index)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if position.LockUntil > position.CreatedAt && now < position.LockUntil {
		return nil, fmt.Errorf("%w: until %d", ErrStillLocked, position.LockUntil)
	}

	elapsed := elapsedSince(position.LastSettled, now)
	owed := accruedReward(position.Principal, plan.RateBps, elapsed)
	owed.Add(owed, completionBonus(position.Principal, plan.BonusBps))

	vault, err := e.loadVault()
	if err != nil {
		return nil, err
	}
	paid := minBig(owed, vault.Reserve)
	total := new(big.Int).Add(position.Principal, paid)
	if total.Sign() == 0 {
		return nil, ErrZeroPayout
	}

	if err := e.port.TransferOut(caller, total); err != nil {
		return nil, err
	}

	position.Active = false
	position.LastSettled = now
	if err := e.state.PositionPut(position); err != nil {
		return nil, err
	}
	vault.TotalStaked = new(big.Int).Sub(vault.TotalStaked, position.Principal)
	vault.Reserve = new(big.Int).Sub(vault.Reserve, paid)
	vault.RewardsPaid = new(big.Int).Add(vault.RewardsPaid, paid)
	if err := e.state.VaultPut(vault); err != nil {
		return nil, err
	}

	if owed.Cmp(paid) > 0 {
		e.emit(events.ReserveShortfall{
			Owner:     caller,
			Index:     index,
			Owed:      cloneBigInt(owed),
			Available: cloneBigInt(paid),
		})
	}
	e.emit(events.StakeWithdrawn{
		Owner:      caller,
		Index:      index,
		Principal:  cloneBigInt(position.Principal),
		RewardPaid: cloneBigInt(paid),
		RewardOwed: cloneBigInt(owed),
	})
	return total, nil
}

// ClaimReward pays the reward accrued since the position's last settlement
// without moving principal. Rewards may be claimed from a locked position.
// When only part of the owed reward can be paid the last-settlement timestamp
// advances proportionally, leaving the unpaid fraction of elapsed time
// outstanding so it keeps accruing at current rates.
func (e *Engine) ClaimReward(caller [20]byte, index uint64) (*big.Int, error) {
	if e == nil {
		return nil, ErrNilState
	}
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	position, plan, err := e.loadActivePosition(caller, index)
	if err != nil {
		return nil, err
	}
	now := e.now()
	elapsed := elapsedSince(position.LastSettled, now)
	owed := accruedReward(position.Principal, plan.RateBps, elapsed)
	if owed.Sign() == 0 {
		return nil, ErrNothingToClaim
	}

	vault, err := e.loadVault()
	if err != nil {
		return nil, err
	}
	paid := minBig(owed, vault.Reserve)
	if paid.Sign() == 0 {
		return nil, ErrReserveDepleted
	}

	if err := e.port.TransferOut(caller, paid); err != nil {
		return nil, err
	}

	position.LastSettled += settlementAdvance(elapsed, paid, owed)
	if err := e.state.PositionPut(position); err != nil {
		return nil, err
	}
	vault.Reserve = new(big.Int).Sub(vault.Reserve, paid)
	vault.RewardsPaid = new(big.Int).Add(vault.RewardsPaid, paid)
	if err := e.state.VaultPut(vault); err != nil {
		return nil, err
	}

	if owed.Cmp(paid) > 0 {
		e.emit(events.ReserveShortfall{
			Owner:     caller,
			Index:     index,
			Owed:      cloneBigInt(owed),
			Available: cloneBigInt(paid),
		})
	}
	e.emit(events.RewardClaimed{
		Owner:       caller,
		Index:       index,
		Paid:        cloneBigInt(paid),
		Owed:        cloneBigInt(owed),
		LastSettled: position.LastSettled,
	})
	return paid, nil
}

// FundReserve pulls amount from the administrator into the reward reserve.
func (e *Engine) FundReserve(caller [20]byte, amount *big.Int) error {
	if e == nil {
		return ErrNilState
	}
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	vault, err := e.loadVault()
	if err != nil {
		return err
	}
	if caller != vault.Owner {
		return ErrUnauthorized
	}
	if err := e.port.TransferIn(caller, amount); err != nil {
		return err
	}
	vault.Reserve = new(big.Int).Add(vault.Reserve, amount)
	if err := e.state.VaultPut(vault); err != nil {
		return err
	}
	e.emit(events.ReserveFunded{
		Funder:  caller,
		Amount:  cloneBigInt(amount),
		Balance: cloneBigInt(vault.Reserve),
	})
	return nil
}

// EmergencyWithdraw moves reserve funds out to an arbitrary recipient. This is
// the administrator escape hatch: it may leave the reserve unable to pay
// accrued rewards, which downstream claims absorb through the degradation
// policy rather than by blocking the withdrawal.
func (e *Engine) EmergencyWithdraw(caller, to [20]byte, amount *big.Int) error {
	if e == nil {
		return ErrNilState
	}
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if to == ([20]byte{}) {
		return ErrNilRecipient
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	vault, err := e.loadVault()
	if err != nil {
		return err
	}
	if caller != vault.Owner {
		return ErrUnauthorized
	}
	if vault.Reserve.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %s, want %s", ErrReserveExceeded, vault.Reserve, amount)
	}
	if err := e.port.TransferOut(to, amount); err != nil {
		return err
	}
	vault.Reserve = new(big.Int).Sub(vault.Reserve, amount)
	if err := e.state.VaultPut(vault); err != nil {
		return err
	}
	e.emit(events.ReserveWithdrawn{
		Recipient: to,
		Amount:    cloneBigInt(amount),
		Balance:   cloneBigInt(vault.Reserve),
	})
	return nil
}

// PendingReward reports the reward accrued but unpaid for a position since its
// last settlement. Closed positions accrue nothing. The query never mutates
// state.
func (e *Engine) PendingReward(owner [20]byte, index uint64) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	position, ok, err := e.state.PositionGet(owner, index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPositionNotFound, index)
	}
	if !position.Active {
		return big.NewInt(0), nil
	}
	plan, ok, err := e.state.PlanGet(position.PlanID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlanNotFound, position.PlanID)
	}
	elapsed := elapsedSince(position.LastSettled, e.now())
	return accruedReward(position.Principal, plan.RateBps, elapsed), nil
}

// Positions lists every position ever opened by the owner, including closed
// ones, in creation order.
func (e *Engine) Positions(owner [20]byte) ([]PositionInfo, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	count, err := e.state.PositionCount(owner)
	if err != nil {
		return nil, err
	}
	now := e.now()
	infos := make([]PositionInfo, 0, count)
	for index := uint64(0); index < count; index++ {
		position, ok, err := e.state.PositionGet(owner, index)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrPositionNotFound, index)
		}
		pending := big.NewInt(0)
		if position.Active {
			if plan, ok, err := e.state.PlanGet(position.PlanID); err != nil {
				return nil, err
			} else if ok {
				pending = accruedReward(position.Principal, plan.RateBps, elapsedSince(position.LastSettled, now))
			}
		}
		infos = append(infos, PositionInfo{
			Index:         position.Index,
			PlanID:        position.PlanID,
			Principal:     cloneBigInt(position.Principal),
			CreatedAt:     position.CreatedAt,
			LockUntil:     position.LockUntil,
			LastSettled:   position.LastSettled,
			PendingReward: pending,
			Active:        position.Active,
		})
	}
	return infos, nil
}

// Stats reports the aggregate counters.
func (e *Engine) Stats() (*Stats, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	vault, err := e.loadVault()
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalStaked: cloneBigInt(vault.TotalStaked),
		RewardsPaid: cloneBigInt(vault.RewardsPaid),
		Reserve:     cloneBigInt(vault.Reserve),
	}, nil
}

func (e *Engine) loadVault() (*Vault, error) {
	vault, err := e.state.VaultGet()
	if err != nil {
		return nil, err
	}
	if vault == nil {
		return nil, ErrNilState
	}
	return vault.Normalize(), nil
}

func (e *Engine) loadActivePosition(owner [20]byte, index uint64) (*Position, *Plan, error) {
	position, ok, err := e.state.PositionGet(owner, index)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrPositionNotFound, index)
	}
	if !position.Active {
		return nil, nil, fmt.Errorf("%w: %d", ErrPositionClosed, index)
	}
	plan, ok, err := e.state.PlanGet(position.PlanID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrPlanNotFound, position.PlanID)
	}
	return position, plan, nil
}

func elapsedSince(last, now uint64) uint64 {
	if now <= last {
		return 0
	}
	return now - last
}
