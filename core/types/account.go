package types

import "math/big"

// Account holds the fungible token balance tracked for a participant. The
// staking module moves funds between participant accounts and its custody
// accounts exclusively through balance adjustments on this type.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// EnsureBalance normalises a freshly decoded or zero-value account so callers
// can operate on the balance without nil checks.
func (a *Account) EnsureBalance() *Account {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	return a
}
