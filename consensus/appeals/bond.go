package appeals

import (
	"math/big"

	"feesim/core/types"
)

// Bond returns the stake an appealant must post for the nth appeal of the
// transaction (0-based): the appeal round's full validator compensation plus
// one leader quantum.
func Bond(appealOrdinal int, budget types.TransactionBudget) *big.Int {
	size := big.NewInt(int64(AppealRoundSize(appealOrdinal)))
	bond := new(big.Int).Mul(size, types.CopyBig(budget.ValidatorsTimeout))
	return bond.Add(bond, types.CopyBig(budget.LeaderTimeout))
}

// Bonds maps every appeal-labeled round index to its bond, walking the final
// label sequence in order so the nth appeal uses the nth table entry.
func Bonds(sequence []types.RoundLabel, budget types.TransactionBudget) map[int]*big.Int {
	bonds := make(map[int]*big.Int)
	ordinal := 0
	for i, label := range sequence {
		if !label.IsAppeal() {
			continue
		}
		bonds[i] = Bond(ordinal, budget)
		ordinal++
	}
	return bonds
}
