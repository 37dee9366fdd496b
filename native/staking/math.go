package staking

import "math/big"

const (
	secondsPerYear   = 365 * 86400
	basisPointsDenom = 10_000
)

// accrualDenom folds the year length and the basis-point scaling into a single
// divisor so rewards are computed with one truncating division.
var accrualDenom = big.NewInt(secondsPerYear * basisPointsDenom)

// accruedReward computes simple (non-compounding) interest on principal for
// elapsed seconds at an annual rate expressed in basis points. The result is
// truncated toward zero; any remainder below one token unit is dropped, never
// carried forward.
func accruedReward(principal *big.Int, rateBps uint64, elapsed uint64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || rateBps == 0 || elapsed == 0 {
		return big.NewInt(0)
	}
	reward := new(big.Int).SetUint64(elapsed)
	reward.Mul(reward, new(big.Int).SetUint64(rateBps))
	reward.Mul(reward, principal)
	return reward.Quo(reward, accrualDenom)
}

// completionBonus computes the one-off bonus paid when a position is closed.
func completionBonus(principal *big.Int, bonusBps uint64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || bonusBps == 0 {
		return big.NewInt(0)
	}
	bonus := new(big.Int).SetUint64(bonusBps)
	bonus.Mul(bonus, principal)
	return bonus.Quo(bonus, big.NewInt(basisPointsDenom))
}

// settlementAdvance returns how far the last-settlement timestamp moves after
// a payout. Full payment advances by the whole elapsed window; a partial
// payment advances proportionally so the unpaid fraction of elapsed time keeps
// accruing on the next claim.
func settlementAdvance(elapsed uint64, paid, owed *big.Int) uint64 {
	if elapsed == 0 || paid == nil || paid.Sign() <= 0 || owed == nil || owed.Sign() <= 0 {
		return 0
	}
	if paid.Cmp(owed) >= 0 {
		return elapsed
	}
	advance := new(big.Int).SetUint64(elapsed)
	advance.Mul(advance, paid)
	advance.Quo(advance, owed)
	return advance.Uint64()
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
