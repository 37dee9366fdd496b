package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stakevault/core/types"
)

type mockAccounts struct {
	accounts map[[20]byte]*types.Account
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{accounts: make(map[[20]byte]*types.Account)}
}

func (m *mockAccounts) AccountGet(addr [20]byte) (*types.Account, error) {
	if acc, ok := m.accounts[addr]; ok {
		return &types.Account{Nonce: acc.Nonce, Balance: cloneBigInt(acc.Balance)}, nil
	}
	return &types.Account{Balance: big.NewInt(0)}, nil
}

func (m *mockAccounts) AccountPut(addr [20]byte, account *types.Account) error {
	m.accounts[addr] = &types.Account{Nonce: account.Nonce, Balance: cloneBigInt(account.Balance)}
	return nil
}

func (m *mockAccounts) balance(addr [20]byte) *big.Int {
	if acc, ok := m.accounts[addr]; ok {
		return cloneBigInt(acc.Balance)
	}
	return big.NewInt(0)
}

func TestBalancePortTransferIn(t *testing.T) {
	state := newMockAccounts()
	custody := addr(0xC0)
	user := addr(0x01)
	state.accounts[user] = &types.Account{Balance: wei(100)}

	port := NewBalancePort(state, custody)
	require.NoError(t, port.TransferIn(user, wei(40)))

	require.Equal(t, wei(60), state.balance(user))
	require.Equal(t, wei(40), state.balance(custody))
}

func TestBalancePortTransferOut(t *testing.T) {
	state := newMockAccounts()
	custody := addr(0xC0)
	user := addr(0x01)
	state.accounts[custody] = &types.Account{Balance: wei(100)}

	port := NewBalancePort(state, custody)
	require.NoError(t, port.TransferOut(user, wei(30)))

	require.Equal(t, wei(70), state.balance(custody))
	require.Equal(t, wei(30), state.balance(user))
}

func TestBalancePortInsufficientBalance(t *testing.T) {
	state := newMockAccounts()
	custody := addr(0xC0)
	user := addr(0x01)
	state.accounts[user] = &types.Account{Balance: wei(10)}

	port := NewBalancePort(state, custody)
	err := port.TransferIn(user, wei(11))
	require.Error(t, err)

	// A failed transfer moves nothing.
	require.Equal(t, wei(10), state.balance(user))
	require.Zero(t, state.balance(custody).Sign())
}

func TestBalancePortRejectsNegativeAmount(t *testing.T) {
	state := newMockAccounts()
	port := NewBalancePort(state, addr(0xC0))
	require.Error(t, port.TransferIn(addr(0x01), big.NewInt(-1)))
}

func TestBalancePortZeroAmountIsNoop(t *testing.T) {
	state := newMockAccounts()
	port := NewBalancePort(state, addr(0xC0))
	require.NoError(t, port.TransferOut(addr(0x01), big.NewInt(0)))
	require.Empty(t, state.accounts)
}
