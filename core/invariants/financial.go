package invariants

import (
	"fmt"
	"math/big"

	"feesim/consensus/appeals"
	"feesim/core"
	"feesim/core/types"
	"feesim/native/fees"
)

// checkConservation verifies the books balance: every unit charged was either
// earned by a participant, burned, or refunded to the sender.
func checkConservation(state *core.TransactionState) *Violation {
	totals := fees.SumTotals(state.Events)
	outflow := new(big.Int).Add(totals.Earned, totals.Burned)
	outflow.Add(outflow, state.Refund)
	if totals.Cost.Cmp(outflow) == 0 {
		return nil
	}
	return &Violation{
		Message: "total costs do not equal earnings plus burns plus refund",
		Context: map[string]string{
			"cost":    totals.Cost.String(),
			"earned":  totals.Earned.String(),
			"burned":  totals.Burned.String(),
			"refund":  state.Refund.String(),
			"outflow": outflow.String(),
		},
	}
}

// checkNonNegativeBalance verifies no participant's collateralized position
// went below zero. The sender funds the transaction from outside the staking
// system and is exempt.
func checkNonNegativeBalance(state *core.TransactionState) *Violation {
	ledger := fees.ProjectBalances(state.Events)
	for _, addr := range ledger.Addresses() {
		if addr == state.Budget.Sender {
			continue
		}
		net := ledger.Sheet(addr).Net(state.Stake(addr))
		if net.Sign() < 0 {
			return &Violation{
				Message: fmt.Sprintf("address %s holds a negative balance", addr.Hex()),
				Context: map[string]string{
					"address": addr.Hex(),
					"balance": net.String(),
				},
			}
		}
	}
	return nil
}

// checkAppealBondCoverage verifies every posted bond covers the appeal
// round's full compensation.
func checkAppealBondCoverage(state *core.TransactionState) *Violation {
	for i, label := range state.Labels {
		if !label.IsAppeal() {
			continue
		}
		bond, ok := state.Bonds[i]
		if !ok {
			return &Violation{
				Message: fmt.Sprintf("appeal round %d has no bond", i),
				Context: map[string]string{"round": fmt.Sprint(i)},
			}
		}
		seats := int64(len(state.Rounds[i].Last().Votes))
		required := new(big.Int).Mul(big.NewInt(seats), state.Budget.ValidatorsTimeout)
		required.Add(required, state.Budget.LeaderTimeout)
		if bond.Cmp(required) < 0 {
			return &Violation{
				Message: fmt.Sprintf("bond of appeal round %d does not cover the round", i),
				Context: map[string]string{
					"round":    fmt.Sprint(i),
					"bond":     bond.String(),
					"required": required.String(),
				},
			}
		}
	}
	return nil
}

// checkBurnNonNegativity verifies every event quantity is non-negative.
func checkBurnNonNegativity(state *core.TransactionState) *Violation {
	for _, event := range state.Events {
		quantities := []struct {
			field  string
			amount *big.Int
		}{
			{"earned", event.Earned},
			{"cost", event.Cost},
			{"burned", event.Burned},
			{"slashed", event.Slashed},
		}
		for _, q := range quantities {
			field, amount := q.field, q.amount
			if amount == nil || amount.Sign() < 0 {
				return &Violation{
					Message: fmt.Sprintf("event %d carries a negative %s quantity", event.Sequence, field),
					Context: map[string]string{
						"sequence": fmt.Sprint(event.Sequence),
						"field":    field,
					},
				}
			}
		}
	}
	return nil
}

// checkRefundNonNegativity verifies the sender refund never goes negative.
func checkRefundNonNegativity(state *core.TransactionState) *Violation {
	if state.Refund != nil && state.Refund.Sign() >= 0 {
		return nil
	}
	return &Violation{
		Message: "sender refund is negative",
		Context: map[string]string{"refund": fmt.Sprint(state.Refund)},
	}
}

// checkLeaderTimeoutEarningLimit verifies a half-rate timeout round never
// pays its leader more than one leader quantum.
func checkLeaderTimeoutEarningLimit(state *core.TransactionState) *Violation {
	for i, label := range state.Labels {
		if label != types.LabelLeaderTimeout50Percent {
			continue
		}
		earned := big.NewInt(0)
		for _, event := range state.Events {
			if event.RoundIndex == i && event.Role == types.RoleLeader {
				earned.Add(earned, event.Earned)
			}
		}
		if earned.Cmp(state.Budget.LeaderTimeout) > 0 {
			return &Violation{
				Message: fmt.Sprintf("timed-out leader of round %d earned beyond the leader quantum", i),
				Context: map[string]string{
					"round":  fmt.Sprint(i),
					"earned": earned.String(),
					"limit":  state.Budget.LeaderTimeout.String(),
				},
			}
		}
	}
	return nil
}

// checkAppealBondConsistency verifies the recorded bonds follow the appeal
// table progression across the whole chain.
func checkAppealBondConsistency(state *core.TransactionState) *Violation {
	ordinal := 0
	for i, label := range state.Labels {
		if !label.IsAppeal() {
			continue
		}
		expected := appeals.Bond(ordinal, state.Budget)
		if bond, ok := state.Bonds[i]; !ok || bond.Cmp(expected) != 0 {
			return &Violation{
				Message: fmt.Sprintf("bond of appeal round %d diverges from the appeal table", i),
				Context: map[string]string{
					"round":    fmt.Sprint(i),
					"ordinal":  fmt.Sprint(ordinal),
					"expected": expected.String(),
				},
			}
		}
		ordinal++
	}
	return nil
}

// checkCostAccounting verifies the charged costs are exactly the sender's
// per-round reservations plus the posted bonds.
func checkCostAccounting(state *core.TransactionState) *Violation {
	expected := big.NewInt(0)
	for i, round := range state.Rounds {
		if state.Labels[i] == types.LabelEmptyRound {
			continue
		}
		expected.Add(expected, fees.Reservation(round.Last(), state.Budget))
	}
	for _, bond := range state.Bonds {
		expected.Add(expected, bond)
	}
	totals := fees.SumTotals(state.Events)
	if totals.Cost.Cmp(expected) == 0 {
		return nil
	}
	return &Violation{
		Message: "charged costs diverge from sender outlay plus bonds",
		Context: map[string]string{
			"charged":  totals.Cost.String(),
			"expected": expected.String(),
		},
	}
}
