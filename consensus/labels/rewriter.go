package labels

import (
	"fmt"

	"feesim/core/types"
)

// Rewrite applies the contextual rules over the preliminary label sequence
// and returns the final labels. The pass runs left to right; every rule is
// local to a round, its effective predecessor, and its direct successor.
func Rewrite(outcomes []Outcome) []types.RoundLabel {
	sequence := make([]types.RoundLabel, len(outcomes))
	for i, outcome := range outcomes {
		sequence[i] = outcome.Preliminary
	}

	for i := range sequence {
		current := sequence[i]

		if current.IsSuccessfulAppeal() {
			if prev := effectivePredecessor(outcomes, i); prev >= 0 {
				sequence[prev] = types.LabelSkipRound
			}
		}

		next := i + 1
		switch current {
		case types.LabelAppealLeaderTimeoutSuccessful:
			if next < len(sequence) && outcomes[next].Preliminary == types.LabelNormalRound {
				sequence[next] = types.LabelLeaderTimeout150PreviousNormalRound
			}
		case types.LabelAppealLeaderUnsuccessful, types.LabelAppealValidatorUnsuccessful:
			if next < len(sequence) && outcomes[next].Preliminary == types.LabelNormalRound &&
				outcomes[next].Majority == MajorityUndetermined {
				sequence[next] = types.LabelSplitPreviousAppealBond
			}
		case types.LabelAppealLeaderTimeoutUnsuccessful:
			if next < len(sequence) && outcomes[next].Preliminary == prelimLeaderTimeout {
				sequence[next] = types.LabelLeaderTimeout50PreviousAppealBond
			}
		}
	}

	// A leader-timeout round that no rule resolved stands on its own: the
	// leader served half the round before timing out and is compensated at
	// the 50 percent rate.
	for i, label := range sequence {
		if label == prelimLeaderTimeout {
			sequence[i] = types.LabelLeaderTimeout50Percent
		}
		if !sequence[i].Valid() {
			panic(fmt.Sprintf("labels: round %d left with invalid label %q", i, sequence[i]))
		}
	}
	return sequence
}

// LabelRounds runs classification and rewriting in one step.
func LabelRounds(rounds []types.Round) ([]types.RoundLabel, []Outcome) {
	outcomes := Classify(rounds)
	return Rewrite(outcomes), outcomes
}
