package staking

import (
	"math/big"
	"testing"
)

func wei(tokens int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(tokens), unit)
}

func TestAccruedRewardFullYear(t *testing.T) {
	// 1000 tokens at 15% for exactly one year yields exactly 150 tokens.
	reward := accruedReward(wei(1000), 1500, secondsPerYear)
	if reward.Cmp(wei(150)) != 0 {
		t.Fatalf("unexpected reward: got %s want %s", reward, wei(150))
	}
}

func TestAccruedRewardTruncatesTowardZero(t *testing.T) {
	// 1 wei principal at 1 bp for 1 second owes far less than one token unit;
	// the fractional remainder is dropped, not carried forward.
	reward := accruedReward(big.NewInt(1), 1, 1)
	if reward.Sign() != 0 {
		t.Fatalf("expected truncation to zero, got %s", reward)
	}

	// 3 wei at the rate cap over a third of the denominator truncates the
	// remainder below one wei.
	principal := big.NewInt(3)
	reward = accruedReward(principal, 100_000, secondsPerYear/2)
	expected := new(big.Int).Mul(principal, big.NewInt(100_000))
	expected.Mul(expected, big.NewInt(secondsPerYear/2))
	expected.Quo(expected, accrualDenom)
	if reward.Cmp(expected) != 0 {
		t.Fatalf("unexpected truncated reward: got %s want %s", reward, expected)
	}
}

func TestAccruedRewardZeroInputs(t *testing.T) {
	if accruedReward(nil, 1500, 100).Sign() != 0 {
		t.Fatal("nil principal must accrue nothing")
	}
	if accruedReward(wei(10), 0, 100).Sign() != 0 {
		t.Fatal("zero rate must accrue nothing")
	}
	if accruedReward(wei(10), 1500, 0).Sign() != 0 {
		t.Fatal("zero elapsed must accrue nothing")
	}
	if accruedReward(big.NewInt(-5), 1500, 100).Sign() != 0 {
		t.Fatal("negative principal must accrue nothing")
	}
}

func TestAccruedRewardMaxRateNoOverflow(t *testing.T) {
	// A large stake at the 1000% rate cap over a decade stays exact under
	// big-int arithmetic.
	principal := new(big.Int).Mul(wei(1), big.NewInt(1_000_000_000))
	reward := accruedReward(principal, 100_000, 10*secondsPerYear)
	expected := new(big.Int).Mul(principal, big.NewInt(100))
	if reward.Cmp(expected) != 0 {
		t.Fatalf("unexpected reward: got %s want %s", reward, expected)
	}
}

func TestCompletionBonus(t *testing.T) {
	bonus := completionBonus(wei(1000), 200)
	if bonus.Cmp(wei(20)) != 0 {
		t.Fatalf("unexpected bonus: got %s want %s", bonus, wei(20))
	}
	if completionBonus(wei(1000), 0).Sign() != 0 {
		t.Fatal("zero bonus bps must pay nothing")
	}
	if completionBonus(nil, 200).Sign() != 0 {
		t.Fatal("nil principal must pay nothing")
	}
}

func TestSettlementAdvanceFullPayment(t *testing.T) {
	if got := settlementAdvance(3600, wei(10), wei(10)); got != 3600 {
		t.Fatalf("full payment must advance the whole window, got %d", got)
	}
	if got := settlementAdvance(3600, wei(11), wei(10)); got != 3600 {
		t.Fatalf("overpayment must cap at the elapsed window, got %d", got)
	}
}

func TestSettlementAdvanceProportional(t *testing.T) {
	// Paying a third of what is owed advances a third of the window.
	elapsed := uint64(secondsPerYear)
	got := settlementAdvance(elapsed, wei(50), wei(150))
	if got != elapsed/3 {
		t.Fatalf("unexpected advance: got %d want %d", got, elapsed/3)
	}
}

func TestSettlementAdvanceTruncates(t *testing.T) {
	// 100 seconds, 1 of 3 owed paid: 33.33 truncates to 33.
	if got := settlementAdvance(100, big.NewInt(1), big.NewInt(3)); got != 33 {
		t.Fatalf("unexpected advance: got %d want 33", got)
	}
}

func TestSettlementAdvanceZeroInputs(t *testing.T) {
	if settlementAdvance(0, wei(1), wei(2)) != 0 {
		t.Fatal("zero elapsed must not advance")
	}
	if settlementAdvance(100, nil, wei(2)) != 0 {
		t.Fatal("nil paid must not advance")
	}
	if settlementAdvance(100, big.NewInt(0), wei(2)) != 0 {
		t.Fatal("zero paid must not advance")
	}
	if settlementAdvance(100, wei(1), nil) != 0 {
		t.Fatal("nil owed must not advance")
	}
}
