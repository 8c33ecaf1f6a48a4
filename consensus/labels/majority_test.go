package labels

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core/types"
)

func testAddr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func rotationOf(kinds ...types.VoteKind) types.Rotation {
	rotation := types.Rotation{}
	for i, kind := range kinds {
		rotation.Votes = append(rotation.Votes, types.VoteEntry{
			Address: testAddr(byte(0x10 + i)),
			Vote:    types.NewVote(kind),
		})
	}
	return rotation
}

func withReceipt(rotation types.Rotation, leaderVote types.VoteKind) types.Rotation {
	rotation.Leader = testAddr(0x01)
	rotation.Action = &types.LeaderAction{Kind: types.ActionReceipt, Vote: types.NewVote(leaderVote)}
	return rotation
}

func TestTallyClearMajority(t *testing.T) {
	cases := []struct {
		name  string
		kinds []types.VoteKind
		want  Majority
	}{
		{"agree wins", []types.VoteKind{types.VoteAgree, types.VoteAgree, types.VoteDisagree}, MajorityAgree},
		{"disagree wins", []types.VoteKind{types.VoteDisagree, types.VoteDisagree, types.VoteAgree}, MajorityDisagree},
		{"timeout wins", []types.VoteKind{types.VoteTimeout, types.VoteTimeout, types.VoteAgree}, MajorityTimeout},
		{"tie is undetermined", []types.VoteKind{types.VoteAgree, types.VoteDisagree}, MajorityUndetermined},
		{"three way tie", []types.VoteKind{types.VoteAgree, types.VoteDisagree, types.VoteTimeout}, MajorityUndetermined},
		{"no votes", nil, MajorityUndetermined},
		{"idle excluded", []types.VoteKind{types.VoteIdle, types.VoteIdle, types.VoteAgree}, MajorityAgree},
		{"na excluded", []types.VoteKind{types.VoteNotApplicable, types.VoteNotApplicable}, MajorityUndetermined},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tally(rotationOf(tc.kinds...)); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestTallyIncludesLeaderSelfVote(t *testing.T) {
	rotation := withReceipt(rotationOf(types.VoteAgree, types.VoteDisagree), types.VoteAgree)
	if got := Tally(rotation); got != MajorityAgree {
		t.Fatalf("leader self-vote should break the tie, got %s", got)
	}
	if got := TallyValidators(rotation); got != MajorityUndetermined {
		t.Fatalf("validator-only tally must exclude the leader, got %s", got)
	}
}

func TestMajorityMatches(t *testing.T) {
	if !MajorityAgree.Matches(types.VoteAgree) {
		t.Fatal("agree majority should match agree votes")
	}
	if MajorityAgree.Matches(types.VoteDisagree) {
		t.Fatal("agree majority must not match disagree votes")
	}
	if MajorityUndetermined.Matches(types.VoteAgree) {
		t.Fatal("undetermined majority matches nothing")
	}
}
