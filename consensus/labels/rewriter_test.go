package labels

import (
	"testing"

	"feesim/core/types"
)

func outcome(label types.RoundLabel, majority Majority) Outcome {
	return Outcome{Preliminary: label, Majority: majority, ValidatorMajority: majority}
}

func expectSequence(t *testing.T, got, want []types.RoundLabel) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d labels got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round %d: expected %s got %s", i, want[i], got[i])
		}
	}
}

func TestRewriteSuccessfulAppealSkipsPredecessor(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(types.LabelNormalRound, MajorityAgree),
		outcome(types.LabelAppealLeaderSuccessful, MajorityUndetermined),
		outcome(types.LabelNormalRound, MajorityDisagree),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelSkipRound,
		types.LabelAppealLeaderSuccessful,
		types.LabelNormalRound,
	})
}

func TestRewriteValidatorAppealSkipsPredecessor(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(types.LabelNormalRound, MajorityAgree),
		outcome(types.LabelAppealValidatorSuccessful, MajorityDisagree),
		outcome(types.LabelNormalRound, MajorityDisagree),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelSkipRound,
		types.LabelAppealValidatorSuccessful,
		types.LabelNormalRound,
	})
}

func TestRewriteLeaderTimeoutAppealSuccess(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(prelimLeaderTimeout, MajorityTimeout),
		outcome(types.LabelAppealLeaderTimeoutSuccessful, MajorityAgree),
		outcome(types.LabelNormalRound, MajorityAgree),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelSkipRound,
		types.LabelAppealLeaderTimeoutSuccessful,
		types.LabelLeaderTimeout150PreviousNormalRound,
	})
}

func TestRewriteUndeterminedAfterUnsuccessfulAppeal(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(types.LabelNormalRound, MajorityAgree),
		outcome(types.LabelAppealValidatorUnsuccessful, MajorityAgree),
		outcome(types.LabelNormalRound, MajorityUndetermined),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelNormalRound,
		types.LabelAppealValidatorUnsuccessful,
		types.LabelSplitPreviousAppealBond,
	})
}

func TestRewriteDeterminedNextStaysNormal(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(types.LabelNormalRound, MajorityAgree),
		outcome(types.LabelAppealLeaderUnsuccessful, MajorityUndetermined),
		outcome(types.LabelNormalRound, MajorityAgree),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelNormalRound,
		types.LabelAppealLeaderUnsuccessful,
		types.LabelNormalRound,
	})
}

func TestRewriteTimeoutAfterUnsuccessfulTimeoutAppeal(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(prelimLeaderTimeout, MajorityTimeout),
		outcome(types.LabelAppealLeaderTimeoutUnsuccessful, MajorityTimeout),
		outcome(prelimLeaderTimeout, MajorityTimeout),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelLeaderTimeout50Percent,
		types.LabelAppealLeaderTimeoutUnsuccessful,
		types.LabelLeaderTimeout50PreviousAppealBond,
	})
}

func TestRewriteChainedAppealsSkipEffectivePredecessor(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(types.LabelNormalRound, MajorityAgree),
		outcome(types.LabelAppealValidatorUnsuccessful, MajorityAgree),
		outcome(types.LabelAppealValidatorSuccessful, MajorityDisagree),
		outcome(types.LabelNormalRound, MajorityDisagree),
	})
	// The successful appeal walks past the unsuccessful one and voids the
	// normal round both contested.
	expectSequence(t, got, []types.RoundLabel{
		types.LabelSkipRound,
		types.LabelAppealValidatorUnsuccessful,
		types.LabelAppealValidatorSuccessful,
		types.LabelNormalRound,
	})
}

func TestRewriteLeavesNoPreliminaryTimeout(t *testing.T) {
	got := Rewrite([]Outcome{
		outcome(prelimLeaderTimeout, MajorityTimeout),
		outcome(types.LabelNormalRound, MajorityAgree),
	})
	expectSequence(t, got, []types.RoundLabel{
		types.LabelLeaderTimeout50Percent,
		types.LabelNormalRound,
	})
}

func TestLabelRoundsEndToEnd(t *testing.T) {
	rounds := []types.Round{
		receiptRound(types.VoteAgree, types.VoteAgree, types.VoteAgree, types.VoteDisagree),
		leaderAppealRound(7),
		receiptRound(types.VoteDisagree, types.VoteDisagree, types.VoteDisagree, types.VoteDisagree),
	}
	sequence, outcomes := LabelRounds(rounds)
	expectSequence(t, sequence, []types.RoundLabel{
		types.LabelSkipRound,
		types.LabelAppealLeaderSuccessful,
		types.LabelNormalRound,
	})
	if len(outcomes) != len(sequence) {
		t.Fatalf("outcome count %d diverges from label count %d", len(outcomes), len(sequence))
	}
}
