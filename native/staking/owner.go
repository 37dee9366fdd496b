package staking

import (
	"stakevault/core/events"
)

// TransferOwnership proposes a handover of the administrator capability. The
// proposal takes effect only once the pending owner accepts, so a mistyped
// address cannot strand control of the module.
func (e *Engine) TransferOwnership(caller, newOwner [20]byte) error {
	if e == nil {
		return ErrNilState
	}
	if e.state == nil {
		return ErrNilState
	}
	if newOwner == ([20]byte{}) {
		return ErrNilRecipient
	}
	vault, err := e.loadVault()
	if err != nil {
		return err
	}
	if caller != vault.Owner {
		return ErrUnauthorized
	}
	vault.PendingOwner = newOwner
	if err := e.state.VaultPut(vault); err != nil {
		return err
	}
	e.emit(events.OwnershipProposed{Owner: vault.Owner, Pending: newOwner})
	return nil
}

// AcceptOwnership completes a proposed handover. Only the pending owner may
// accept; the pending slot is cleared on success.
func (e *Engine) AcceptOwnership(caller [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	vault, err := e.loadVault()
	if err != nil {
		return err
	}
	if vault.PendingOwner == ([20]byte{}) || caller != vault.PendingOwner {
		return ErrNotPendingOwner
	}
	previous := vault.Owner
	vault.Owner = caller
	vault.PendingOwner = [20]byte{}
	if err := e.state.VaultPut(vault); err != nil {
		return err
	}
	e.emit(events.OwnershipAccepted{Previous: previous, Owner: caller})
	return nil
}

// Owner reports the current administrator.
func (e *Engine) Owner() ([20]byte, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, ErrNilState
	}
	vault, err := e.loadVault()
	if err != nil {
		return [20]byte{}, err
	}
	return vault.Owner, nil
}

// PendingOwner reports the proposed administrator, zero when no handover is in
// flight.
func (e *Engine) PendingOwner() ([20]byte, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, ErrNilState
	}
	vault, err := e.loadVault()
	if err != nil {
		return [20]byte{}, err
	}
	return vault.PendingOwner, nil
}
