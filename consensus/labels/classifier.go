package labels

import (
	"feesim/core/types"
)

// prelimLeaderTimeout marks a leader-timeout round whose final label depends
// on its surroundings. The rewriter resolves every occurrence; the value
// never appears in a final label sequence.
const prelimLeaderTimeout types.RoundLabel = "LEADER_TIMEOUT"

// Outcome carries the preliminary classification of one round together with
// the tallies the rewriter and the distribution strategies need.
type Outcome struct {
	Preliminary types.RoundLabel
	// Majority is the full-rotation tally (leader self-vote included).
	Majority Majority
	// ValidatorMajority is the validator-only tally used to judge appeals.
	ValidatorMajority Majority
}

// IsAppeal reports whether the round classified as any appeal variant.
func (o Outcome) IsAppeal() bool {
	return o.Preliminary.IsAppeal()
}

// Classify inspects the last rotation of every round and assigns preliminary
// labels. Appeal outcomes are judged against the effective predecessor, the
// nearest prior round that is not itself an appeal.
func Classify(rounds []types.Round) []Outcome {
	outcomes := make([]Outcome, len(rounds))
	for i, round := range rounds {
		rotation := round.Last()
		outcome := Outcome{
			Majority:          Tally(rotation),
			ValidatorMajority: TallyValidators(rotation),
		}
		switch {
		case isLeaderAppealShape(rotation):
			outcome.Preliminary = classifyAppeal(rounds, outcomes, i, true, outcome.ValidatorMajority)
		case isValidatorAppealShape(rotation):
			outcome.Preliminary = classifyAppeal(rounds, outcomes, i, false, outcome.ValidatorMajority)
		case rotation.HasLeaderAction() && rotation.Action.Kind == types.ActionTimeout:
			if len(rounds) == 1 {
				outcome.Preliminary = types.LabelLeaderTimeout50Percent
			} else {
				outcome.Preliminary = prelimLeaderTimeout
			}
		case rotation.HasLeaderAction() && rotation.Action.Kind == types.ActionReceipt:
			outcome.Preliminary = types.LabelNormalRound
		default:
			outcome.Preliminary = types.LabelEmptyRound
		}
		outcomes[i] = outcome
	}
	return outcomes
}

// isLeaderAppealShape matches rounds where no vote is taken: every entry is
// NotApplicable.
func isLeaderAppealShape(rotation types.Rotation) bool {
	if len(rotation.Votes) == 0 {
		return false
	}
	for _, entry := range rotation.Votes {
		if entry.Vote.Kind != types.VoteNotApplicable {
			return false
		}
	}
	return !rotation.HasLeaderAction()
}

// isValidatorAppealShape matches rounds with validator opinions but no leader
// action.
func isValidatorAppealShape(rotation types.Rotation) bool {
	if rotation.HasLeaderAction() {
		return false
	}
	for _, entry := range rotation.Votes {
		if entry.Vote.Kind == types.VoteAgree || entry.Vote.Kind == types.VoteDisagree {
			return true
		}
	}
	return false
}

// classifyAppeal resolves the appeal variant and its success by consulting
// the effective predecessor. An appeal with no predecessor classifies as
// unsuccessful; the invariant registry reports the malformed sequence.
func classifyAppeal(rounds []types.Round, done []Outcome, index int, leaderShape bool, appealMajority Majority) types.RoundLabel {
	prev := effectivePredecessor(done, index)
	if prev < 0 {
		if leaderShape {
			return types.LabelAppealLeaderUnsuccessful
		}
		return types.LabelAppealValidatorUnsuccessful
	}
	prevRotation := rounds[prev].Last()
	prevOutcome := done[prev]

	if prevOutcome.Preliminary == prelimLeaderTimeout || prevOutcome.Preliminary == types.LabelLeaderTimeout50Percent {
		if leaderTimeoutAppealSuccessful(leaderShape, appealMajority, prevRotation) {
			return types.LabelAppealLeaderTimeoutSuccessful
		}
		return types.LabelAppealLeaderTimeoutUnsuccessful
	}

	if leaderShape {
		if leaderAppealSuccessful(prevRotation) {
			return types.LabelAppealLeaderSuccessful
		}
		return types.LabelAppealLeaderUnsuccessful
	}

	if appealMajority.Determined() && appealMajority != prevOutcome.Majority {
		return types.LabelAppealValidatorSuccessful
	}
	return types.LabelAppealValidatorUnsuccessful
}

// leaderAppealSuccessful holds when at least one validator of the contested
// round voted against the leader's receipt.
func leaderAppealSuccessful(prev types.Rotation) bool {
	for _, entry := range prev.Votes {
		if entry.Vote.Kind == types.VoteDisagree {
			return true
		}
	}
	return false
}

// leaderTimeoutAppealSuccessful holds when the appeal demonstrates a result
// was obtainable despite the declared timeout: a vote-bearing appeal reaches
// an Agree or Disagree majority, and a no-vote appeal points at a timeout
// round where some validator saw a result.
func leaderTimeoutAppealSuccessful(leaderShape bool, appealMajority Majority, prev types.Rotation) bool {
	if !leaderShape {
		return appealMajority == MajorityAgree || appealMajority == MajorityDisagree
	}
	for _, entry := range prev.Votes {
		if entry.Vote.Kind == types.VoteAgree || entry.Vote.Kind == types.VoteDisagree {
			return true
		}
	}
	return false
}

// effectivePredecessor walks backwards from index past any chain of appeals
// and returns the nearest non-appeal position, or -1.
func effectivePredecessor(outcomes []Outcome, index int) int {
	for j := index - 1; j >= 0; j-- {
		if !outcomes[j].IsAppeal() {
			return j
		}
	}
	return -1
}

// EffectivePredecessor exposes the predecessor walk over a final label
// sequence.
func EffectivePredecessor(sequence []types.RoundLabel, index int) int {
	for j := index - 1; j >= 0; j-- {
		if !sequence[j].IsAppeal() {
			return j
		}
	}
	return -1
}
