package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestLabelSetIsClosed(t *testing.T) {
	all := AllLabels()
	if len(all) != 13 {
		t.Fatalf("expected 13 labels got %d", len(all))
	}
	seen := make(map[RoundLabel]bool)
	for _, label := range all {
		if !label.Valid() {
			t.Fatalf("label %s reported invalid", label)
		}
		if seen[label] {
			t.Fatalf("duplicate label %s", label)
		}
		seen[label] = true
	}
	if RoundLabel("LEADER_TIMEOUT").Valid() {
		t.Fatal("the preliminary timeout marker must stay outside the closed set")
	}
}

func TestLabelPredicates(t *testing.T) {
	if !LabelAppealLeaderSuccessful.IsAppeal() || !LabelAppealLeaderSuccessful.IsSuccessfulAppeal() {
		t.Fatal("successful leader appeal predicates")
	}
	if LabelAppealLeaderUnsuccessful.IsSuccessfulAppeal() {
		t.Fatal("unsuccessful appeals are not successful")
	}
	if LabelNormalRound.IsAppeal() || !LabelNormalRound.IsNormalFamily() {
		t.Fatal("normal round predicates")
	}
	if !LabelSkipRound.IsNormalFamily() {
		t.Fatal("skip rounds remain normal-family for predecessor walks")
	}
	if !LabelLeaderTimeout50Percent.IsLeaderTimeoutFamily() {
		t.Fatal("timeout family predicate")
	}
	if LabelAppealLeaderTimeoutSuccessful.IsLeaderTimeoutFamily() {
		t.Fatal("timeout appeals are appeals, not timeout resolutions")
	}
}

func TestVoteClone(t *testing.T) {
	vote := NewHashedVote(VoteAgree, common.HexToHash("0xab"))
	clone := vote.Clone()
	if clone.Hash == vote.Hash {
		t.Fatal("clone must not share the hash allocation")
	}
	if *clone.Hash != *vote.Hash {
		t.Fatal("clone must keep the hash value")
	}
}
