package staking

import (
	"fmt"
	"math/big"

	"stakevault/core/types"
)

// TokenPort moves the staked asset between participant accounts and the
// module's custody. The contract is exact-amount: the amount received or sent
// equals the amount requested (no fee-on-transfer, no rebasing). A returned
// error aborts the calling operation with no ledger mutation.
type TokenPort interface {
	TransferIn(from [20]byte, amount *big.Int) error
	TransferOut(to [20]byte, amount *big.Int) error
}

type portState interface {
	AccountGet(addr [20]byte) (*types.Account, error)
	AccountPut(addr [20]byte, account *types.Account) error
}

// BalancePort satisfies TokenPort by adjusting account balances held in the
// ledger state, with a dedicated custody address holding staked principal and
// the reward reserve.
type BalancePort struct {
	state   portState
	custody [20]byte
}

// NewBalancePort wires a balance-backed token port against the given state and
// custody address.
func NewBalancePort(state portState, custody [20]byte) *BalancePort {
	return &BalancePort{state: state, custody: custody}
}

// Custody returns the module's custody address.
func (p *BalancePort) Custody() [20]byte {
	if p == nil {
		return [20]byte{}
	}
	return p.custody
}

// TransferIn pulls amount from the sender into custody.
func (p *BalancePort) TransferIn(from [20]byte, amount *big.Int) error {
	return p.move(from, p.custody, amount)
}

// TransferOut releases amount from custody to the recipient.
func (p *BalancePort) TransferOut(to [20]byte, amount *big.Int) error {
	return p.move(p.custody, to, amount)
}

func (p *BalancePort) move(from, to [20]byte, amount *big.Int) error {
	if p == nil || p.state == nil {
		return ErrNilState
	}
	amt := cloneBigInt(amount)
	if amt.Sign() < 0 {
		return fmt.Errorf("staking: negative transfer amount")
	}
	if amt.Sign() == 0 {
		return nil
	}
	fromAcc, err := p.state.AccountGet(from)
	if err != nil {
		return err
	}
	toAcc, err := p.state.AccountGet(to)
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	toAcc = ensureAccount(toAcc)
	if fromAcc.Balance.Cmp(amt) < 0 {
		return fmt.Errorf("staking: insufficient balance")
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := p.state.AccountPut(from, fromAcc); err != nil {
		return err
	}
	return p.state.AccountPut(to, toAcc)
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	return acc.EnsureBalance()
}
