package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"stakevault/core/types"
	"stakevault/native/staking"
	"stakevault/storage"
)

var (
	keyVault     = []byte("staking/vault")
	keyPlanCount = []byte("staking/plan-count")
)

func planKey(id uint64) []byte {
	key := make([]byte, 0, len("staking/plan/")+8)
	key = append(key, []byte("staking/plan/")...)
	return binary.BigEndian.AppendUint64(key, id)
}

func positionKey(owner [20]byte, index uint64) []byte {
	key := make([]byte, 0, len("staking/position/")+28)
	key = append(key, []byte("staking/position/")...)
	key = append(key, owner[:]...)
	return binary.BigEndian.AppendUint64(key, index)
}

func positionCountKey(owner [20]byte) []byte {
	key := make([]byte, 0, len("staking/position-count/")+20)
	key = append(key, []byte("staking/position-count/")...)
	return append(key, owner[:]...)
}

func accountKey(addr [20]byte) []byte {
	key := make([]byte, 0, len("account/")+20)
	key = append(key, []byte("account/")...)
	return append(key, addr[:]...)
}

// Manager provides typed, RLP-encoded access to the ledger entities on top of
// a generic key-value store. It implements the state interfaces consumed by
// the staking engine, plan registry and token port.
type Manager struct {
	db storage.Database
}

// NewManager wraps the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) put(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

// get decodes the value stored under key into out. The boolean return reports
// whether the key existed.
func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

// --- Plans ---

func (m *Manager) PlanGet(id uint64) (*staking.Plan, bool, error) {
	plan := new(staking.Plan)
	ok, err := m.get(planKey(id), plan)
	if err != nil || !ok {
		return nil, false, err
	}
	return plan, true, nil
}

func (m *Manager) PlanPut(plan *staking.Plan) error {
	if plan == nil {
		return fmt.Errorf("state: nil plan")
	}
	return m.put(planKey(plan.ID), plan)
}

func (m *Manager) PlanCount() (uint64, error) {
	var count uint64
	if _, err := m.get(keyPlanCount, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m *Manager) PlanSetCount(count uint64) error {
	return m.put(keyPlanCount, count)
}

// --- Positions ---

func (m *Manager) PositionGet(owner [20]byte, index uint64) (*staking.Position, bool, error) {
	position := new(staking.Position)
	ok, err := m.get(positionKey(owner, index), position)
	if err != nil || !ok {
		return nil, false, err
	}
	return position, true, nil
}

func (m *Manager) PositionPut(position *staking.Position) error {
	if position == nil {
		return fmt.Errorf("state: nil position")
	}
	return m.put(positionKey(position.Owner, position.Index), position)
}

func (m *Manager) PositionCount(owner [20]byte) (uint64, error) {
	var count uint64
	if _, err := m.get(positionCountKey(owner), &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m *Manager) PositionSetCount(owner [20]byte, count uint64) error {
	return m.put(positionCountKey(owner), count)
}

// --- Vault ---

// VaultGet returns nil without error when the ledger has not been initialized.
func (m *Manager) VaultGet() (*staking.Vault, error) {
	vault := new(staking.Vault)
	ok, err := m.get(keyVault, vault)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return vault.Normalize(), nil
}

func (m *Manager) VaultPut(vault *staking.Vault) error {
	if vault == nil {
		return fmt.Errorf("state: nil vault")
	}
	return m.put(keyVault, vault.Normalize())
}

// --- Accounts ---

// AccountGet returns a fresh zero-balance account when the address has never
// been seen.
func (m *Manager) AccountGet(addr [20]byte) (*types.Account, error) {
	account := new(types.Account)
	ok, err := m.get(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (&types.Account{}).EnsureBalance(), nil
	}
	return account.EnsureBalance(), nil
}

func (m *Manager) AccountPut(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	return m.put(accountKey(addr), account.EnsureBalance())
}
