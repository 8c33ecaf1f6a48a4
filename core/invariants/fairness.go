package invariants

import (
	"fmt"
	"math/big"

	"feesim/consensus/penalty"
	"feesim/core"
	"feesim/core/types"
)

// checkMajorityMinorityConsistency verifies a decided normal round burned
// exactly the penalty for each dissenting validator.
func checkMajorityMinorityConsistency(state *core.TransactionState) *Violation {
	for i, label := range state.Labels {
		if label != types.LabelNormalRound {
			continue
		}
		majority := state.Outcomes[i].Majority
		if !majority.Determined() {
			continue
		}
		minority := 0
		for _, entry := range state.Rounds[i].Last().Votes {
			kind := entry.Vote.Kind
			if kind == types.VoteIdle || kind == types.VoteNotApplicable {
				continue
			}
			if !majority.Matches(kind) {
				minority++
			}
		}
		expected := new(big.Int).Mul(big.NewInt(int64(penalty.RewardFactor*minority)), state.Budget.ValidatorsTimeout)
		burned := big.NewInt(0)
		for _, event := range state.Events {
			if event.RoundIndex == i {
				burned.Add(burned, event.Burned)
			}
		}
		if burned.Cmp(expected) != 0 {
			return &Violation{
				Message: fmt.Sprintf("round %d burned %s, minority penalties require %s", i, burned, expected),
				Context: map[string]string{
					"round":    fmt.Sprint(i),
					"burned":   burned.String(),
					"expected": expected.String(),
					"minority": fmt.Sprint(minority),
				},
			}
		}
	}
	return nil
}

// checkIdleSlashing verifies every idle validator was slashed the idle rate,
// exactly once.
func checkIdleSlashing(state *core.TransactionState) *Violation {
	return checkOffenseSlashing(state, penalty.OffenseIdle, "idle")
}

// checkDeterministicViolationSlashing verifies every hash-mismatching
// validator was slashed the deterministic-violation rate, exactly once.
func checkDeterministicViolationSlashing(state *core.TransactionState) *Violation {
	return checkOffenseSlashing(state, penalty.OffenseDeterministicViolation, "deterministic violation")
}

func checkOffenseSlashing(state *core.TransactionState, offense penalty.Offense, noun string) *Violation {
	for _, inf := range state.Infractions {
		if inf.Offense != offense {
			continue
		}
		expected := penalty.SlashAmount(offense, state.Stake(inf.Address))
		matches := 0
		for _, event := range state.Events {
			if event.RoundIndex != inf.RoundIndex || event.Address != inf.Address || event.Slashed.Sign() == 0 {
				continue
			}
			if event.Slashed.Cmp(expected) != 0 {
				return &Violation{
					Message: fmt.Sprintf("%s slash of %s in round %d has the wrong amount", noun, inf.Address.Hex(), inf.RoundIndex),
					Context: map[string]string{
						"address":  inf.Address.Hex(),
						"round":    fmt.Sprint(inf.RoundIndex),
						"slashed":  event.Slashed.String(),
						"expected": expected.String(),
					},
				}
			}
			matches++
		}
		if matches != 1 {
			return &Violation{
				Message: fmt.Sprintf("%s offense of %s in round %d slashed %d times", noun, inf.Address.Hex(), inf.RoundIndex, matches),
				Context: map[string]string{
					"address": inf.Address.Hex(),
					"round":   fmt.Sprint(inf.RoundIndex),
					"matches": fmt.Sprint(matches),
				},
			}
		}
	}
	return nil
}

// checkNoDoublePenalty verifies a single event never both burns and slashes.
func checkNoDoublePenalty(state *core.TransactionState) *Violation {
	for _, event := range state.Events {
		if event.Burned.Sign() > 0 && event.Slashed.Sign() > 0 {
			return &Violation{
				Message: fmt.Sprintf("event %d both burns and slashes", event.Sequence),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"burned":   event.Burned.String(),
					"slashed":  event.Slashed.String(),
				},
			}
		}
	}
	return nil
}

// checkEarningJustification verifies every earning has a role-appropriate
// cause under the round's label.
func checkEarningJustification(state *core.TransactionState) *Violation {
	for _, event := range state.Events {
		if event.Earned.Sign() == 0 {
			continue
		}
		if !earningJustified(event) {
			return &Violation{
				Message: fmt.Sprintf("event %d pays role %s without a cause under label %s", event.Sequence, event.Role, event.Label),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"role":     string(event.Role),
					"label":    string(event.Label),
				},
			}
		}
	}
	return nil
}

func earningJustified(event types.FeeEvent) bool {
	switch event.Role {
	case types.RoleSender:
		return event.RoundIndex == types.RefundRoundIndex
	case types.RoleLeader:
		switch event.Label {
		case types.LabelNormalRound, types.LabelLeaderTimeout50Percent,
			types.LabelLeaderTimeout150PreviousNormalRound,
			types.LabelLeaderTimeout50PreviousAppealBond,
			types.LabelSplitPreviousAppealBond:
			return true
		}
	case types.RoleValidator:
		switch {
		case event.Label == types.LabelNormalRound,
			event.Label.IsAppeal(),
			event.Label == types.LabelLeaderTimeout150PreviousNormalRound,
			event.Label == types.LabelLeaderTimeout50PreviousAppealBond,
			event.Label == types.LabelSplitPreviousAppealBond:
			return true
		}
	case types.RoleAppealant:
		return event.Label.IsSuccessfulAppeal()
	}
	return false
}

// checkSlashingProportionality verifies every slash amount equals the
// offense coefficient applied to the offender's stake.
func checkSlashingProportionality(state *core.TransactionState) *Violation {
	for _, event := range state.Events {
		if event.Slashed.Sign() == 0 {
			continue
		}
		if !slashProportionate(state, event) {
			return &Violation{
				Message: fmt.Sprintf("slash on event %d is not proportional to any recorded offense", event.Sequence),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"address":  event.Address.Hex(),
					"slashed":  event.Slashed.String(),
				},
			}
		}
	}
	return nil
}

func slashProportionate(state *core.TransactionState, event types.FeeEvent) bool {
	for _, inf := range state.Infractions {
		if inf.RoundIndex != event.RoundIndex || inf.Address != event.Address {
			continue
		}
		if event.Slashed.Cmp(penalty.SlashAmount(inf.Offense, state.Stake(inf.Address))) == 0 {
			return true
		}
	}
	return false
}
