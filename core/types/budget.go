package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// StakingDistribution enumerates how stake is assigned across participants.
// Only the constant distribution is live; other values are reserved.
type StakingDistribution string

const (
	StakingConstant StakingDistribution = "CONSTANT"
)

// initialStakeUnits is the stake every participant holds under the constant
// distribution. Stake is immutable for the lifetime of a transaction.
const initialStakeUnits = 100_000

// InitialStake returns a fresh copy of the constant per-participant stake.
func InitialStake() *big.Int {
	return big.NewInt(initialStakeUnits)
}

// AppealRole binds an appeal round to the address that posted its bond.
type AppealRole struct {
	Appealant common.Address
}

// TransactionBudget is the sender-provided configuration for one transaction:
// the compensation quanta, the appealant roster, and the staking model.
type TransactionBudget struct {
	LeaderTimeout     *big.Int
	ValidatorsTimeout *big.Int
	Appeals           []AppealRole
	Sender            common.Address
	Staking           StakingDistribution
}

// Clone returns a deep copy of the budget.
func (b TransactionBudget) Clone() TransactionBudget {
	clone := TransactionBudget{
		LeaderTimeout:     CopyBig(b.LeaderTimeout),
		ValidatorsTimeout: CopyBig(b.ValidatorsTimeout),
		Sender:            b.Sender,
		Staking:           b.Staking,
	}
	clone.Appeals = append([]AppealRole(nil), b.Appeals...)
	return clone
}

// CopyBig returns a defensive copy of the supplied amount, mapping nil to
// zero.
func CopyBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
