package invariants

import (
	"fmt"

	"feesim/consensus/appeals"
	"feesim/consensus/labels"
	"feesim/core"
	"feesim/core/types"
)

// checkRoleExclusivity verifies no address sits in both the leader seat and a
// validator seat of the same rotation.
func checkRoleExclusivity(state *core.TransactionState) *Violation {
	for i, round := range state.Rounds {
		for _, rotation := range round.Rotations {
			if !rotation.HasLeaderAction() {
				continue
			}
			if _, ok := rotation.VoteFor(rotation.Leader); ok {
				return &Violation{
					Message: fmt.Sprintf("round %d seats %s as both leader and validator", i, rotation.Leader.Hex()),
					Context: map[string]string{
						"round":   fmt.Sprint(i),
						"address": rotation.Leader.Hex(),
					},
				}
			}
		}
	}
	return nil
}

// checkSequentialProcessing verifies round-bound fee events appear in round
// order.
func checkSequentialProcessing(state *core.TransactionState) *Violation {
	last := 0
	for _, event := range state.Events {
		if event.RoundIndex < 0 {
			continue
		}
		if event.RoundIndex < last {
			return &Violation{
				Message: fmt.Sprintf("event %d regressed from round %d to %d", event.Sequence, last, event.RoundIndex),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"round":    fmt.Sprint(event.RoundIndex),
				},
			}
		}
		last = event.RoundIndex
	}
	return nil
}

// checkAppealFollowsNormal verifies every appeal's effective predecessor
// carries a normal-family label.
func checkAppealFollowsNormal(state *core.TransactionState) *Violation {
	for i, label := range state.Labels {
		if !label.IsAppeal() {
			continue
		}
		prev := labels.EffectivePredecessor(state.Labels, i)
		if prev < 0 || !state.Labels[prev].IsNormalFamily() {
			return &Violation{
				Message: fmt.Sprintf("appeal round %d has no normal-family predecessor", i),
				Context: map[string]string{
					"round":       fmt.Sprint(i),
					"predecessor": fmt.Sprint(prev),
				},
			}
		}
	}
	return nil
}

// checkVoteConsistency verifies every vote carried on a fee event matches a
// vote actually recorded in that round, before or after idle replacement.
func checkVoteConsistency(state *core.TransactionState) *Violation {
	for _, event := range state.Events {
		if event.Vote == nil || event.RoundIndex < 0 {
			continue
		}
		if !voteRecorded(state, event) {
			return &Violation{
				Message: fmt.Sprintf("event %d carries a vote round %d never recorded", event.Sequence, event.RoundIndex),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"round":    fmt.Sprint(event.RoundIndex),
					"address":  event.Address.Hex(),
				},
			}
		}
	}
	return nil
}

func voteRecorded(state *core.TransactionState, event types.FeeEvent) bool {
	match := func(rounds []types.Round) bool {
		round := rounds[event.RoundIndex]
		for _, rotation := range round.Rotations {
			if event.Role == types.RoleLeader && rotation.HasLeaderAction() &&
				rotation.Leader == event.Address && rotation.Action.Vote.Kind == event.Vote.Kind {
				return true
			}
			if vote, ok := rotation.VoteFor(event.Address); ok && vote.Kind == event.Vote.Kind {
				return true
			}
		}
		return false
	}
	if event.RoundIndex >= len(state.Rounds) {
		return false
	}
	return match(state.Rounds) || match(state.OriginalRounds)
}

// checkRoundSizeConsistency verifies every round seats the validator count
// the size tables prescribe for its position, including the combination rule
// after a successful appeal.
func checkRoundSizeConsistency(state *core.TransactionState) *Violation {
	expected := appeals.ExpectedSizes(state.Labels)
	for i, round := range state.Rounds {
		actual := len(round.Last().Votes)
		if actual != expected[i] {
			return &Violation{
				Message: fmt.Sprintf("round %d seats %d validators, tables prescribe %d", i, actual, expected[i]),
				Context: map[string]string{
					"round":    fmt.Sprint(i),
					"actual":   fmt.Sprint(actual),
					"expected": fmt.Sprint(expected[i]),
				},
			}
		}
	}
	return nil
}

// checkStrictSequence verifies event sequence ids strictly increase.
func checkStrictSequence(state *core.TransactionState) *Violation {
	for i := 1; i < len(state.Events); i++ {
		if state.Events[i].Sequence <= state.Events[i-1].Sequence {
			return &Violation{
				Message: fmt.Sprintf("sequence id %d does not increase past %d", state.Events[i].Sequence, state.Events[i-1].Sequence),
				Context: map[string]string{
					"position": fmt.Sprint(i),
					"sequence": fmt.Sprint(state.Events[i].Sequence),
				},
			}
		}
	}
	return nil
}

// checkStakeImmutability verifies stake never moves during a transaction:
// every stake equals the constant and every event carries a zero delta.
func checkStakeImmutability(state *core.TransactionState) *Violation {
	for addr, stake := range state.Stakes {
		if stake.Cmp(types.InitialStake()) != 0 {
			return &Violation{
				Message: fmt.Sprintf("stake of %s diverges from the constant distribution", addr.Hex()),
				Context: map[string]string{
					"address": addr.Hex(),
					"stake":   stake.String(),
				},
			}
		}
	}
	for _, event := range state.Events {
		if event.StakeDelta.Sign() != 0 {
			return &Violation{
				Message: fmt.Sprintf("event %d moves stake mid-transaction", event.Sequence),
				Context: map[string]string{
					"sequence": fmt.Sprint(event.Sequence),
					"delta":    event.StakeDelta.String(),
				},
			}
		}
	}
	return nil
}

// checkLabelValidity verifies every round resolved to exactly one label from
// the closed set.
func checkLabelValidity(state *core.TransactionState) *Violation {
	if len(state.Labels) != len(state.Rounds) {
		return &Violation{
			Message: "label count diverges from round count",
			Context: map[string]string{
				"labels": fmt.Sprint(len(state.Labels)),
				"rounds": fmt.Sprint(len(state.Rounds)),
			},
		}
	}
	for i, label := range state.Labels {
		if !label.Valid() {
			return &Violation{
				Message: fmt.Sprintf("round %d carries label %q outside the closed set", i, label),
				Context: map[string]string{
					"round": fmt.Sprint(i),
					"label": string(label),
				},
			}
		}
	}
	return nil
}
