package stakevault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stakevault/config"
	"stakevault/core/types"
	"stakevault/crypto"
	"stakevault/storage"
)

func serviceAddr(t *testing.T, suffix byte) (string, [20]byte) {
	t.Helper()
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	addr, err := crypto.NewAddress(crypto.VaultPrefix, raw)
	require.NoError(t, err)
	return addr.String(), addr.Array()
}

func serviceConfig(t *testing.T) *config.Config {
	t.Helper()
	ownerStr, _ := serviceAddr(t, 0xAA)
	custodyStr, _ := serviceAddr(t, 0xC0)
	return &config.Config{
		DataDir:         t.TempDir(),
		OwnerAddress:    ownerStr,
		CustodyAddress:  custodyStr,
		MinimumStakeWei: "1000",
	}
}

func TestServiceBootstrapsLedger(t *testing.T) {
	cfg := serviceConfig(t)
	db := storage.NewMemDB()

	svc, err := NewWithDatabase(cfg, db, "test")
	require.NoError(t, err)
	defer svc.Close()

	// First boot seeds the default two-plan catalog and the owner.
	plans, err := svc.Registry().Plans()
	require.NoError(t, err)
	require.Len(t, plans, 2)

	_, owner := serviceAddr(t, 0xAA)
	got, err := svc.Engine().Owner()
	require.NoError(t, err)
	require.Equal(t, owner, got)

	require.Equal(t, "1000", svc.Engine().MinimumStake().String())
}

func TestServiceSecondBootLeavesLedgerAlone(t *testing.T) {
	cfg := serviceConfig(t)
	db := storage.NewMemDB()

	svc, err := NewWithDatabase(cfg, db, "test")
	require.NoError(t, err)

	ownerStr, owner := serviceAddr(t, 0xAA)
	_, err = svc.Registry().CreatePlan(owner, "locked-90", 90*86400, 900, 50, true)
	require.NoError(t, err)

	cfg.OwnerAddress = ownerStr
	again, err := NewWithDatabase(cfg, db, "test")
	require.NoError(t, err)
	defer again.Close()

	plans, err := again.Registry().Plans()
	require.NoError(t, err)
	require.Len(t, plans, 3)
}

func TestServiceStakeAgainstWiredLedger(t *testing.T) {
	cfg := serviceConfig(t)
	db := storage.NewMemDB()

	svc, err := NewWithDatabase(cfg, db, "test")
	require.NoError(t, err)
	defer svc.Close()

	_, user := serviceAddr(t, 0x01)
	require.NoError(t, svc.State().AccountPut(user, &types.Account{Balance: big.NewInt(5000)}))

	position, err := svc.Engine().Stake(user, big.NewInt(5000), 0)
	require.NoError(t, err)
	require.True(t, position.Active)

	account, err := svc.State().AccountGet(user)
	require.NoError(t, err)
	require.Zero(t, account.Balance.Sign())

	stats, err := svc.Engine().Stats()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(5000), stats.TotalStaked)
}

func TestServiceRequiresAddresses(t *testing.T) {
	cfg := serviceConfig(t)
	cfg.OwnerAddress = ""
	_, err := NewWithDatabase(cfg, storage.NewMemDB(), "test")
	require.Error(t, err)

	cfg = serviceConfig(t)
	cfg.CustodyAddress = ""
	_, err = NewWithDatabase(cfg, storage.NewMemDB(), "test")
	require.Error(t, err)
}
