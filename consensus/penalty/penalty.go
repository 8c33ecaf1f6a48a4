package penalty

import (
	"math/big"
)

// Penalty coefficients. Slashes are expressed in basis points of the
// offender's stake; the reward factor scales minority burns in units of the
// validator compensation quantum.
const (
	RewardFactor = 1

	IdlePenaltyBps                   = 1_000
	DeterministicViolationPenaltyBps = 10_000

	bpsDenominator = 10_000
)

// Offense enumerates the conducts the adjuster slashes for.
type Offense string

const (
	OffenseIdle                   Offense = "IDLE"
	OffenseDeterministicViolation Offense = "DETERMINISTIC_VIOLATION"
)

// SlashBps returns the basis-point rate applied for the offense.
func (o Offense) SlashBps() uint64 {
	switch o {
	case OffenseIdle:
		return IdlePenaltyBps
	case OffenseDeterministicViolation:
		return DeterministicViolationPenaltyBps
	}
	return 0
}

// SlashAmount computes the stake portion forfeited for the offense.
func SlashAmount(offense Offense, stake *big.Int) *big.Int {
	return scaleByBps(stake, offense.SlashBps())
}

func scaleByBps(value *big.Int, bps uint64) *big.Int {
	if value == nil || value.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	scaled := new(big.Int).Mul(value, new(big.Int).SetUint64(bps))
	return scaled.Div(scaled, big.NewInt(bpsDenominator))
}
