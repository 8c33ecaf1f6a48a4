package wire

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"feesim/core"
	"feesim/core/types"
)

func testAddr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func processedState(t *testing.T) *core.TransactionState {
	t.Helper()
	leader := testAddr(0x01)
	sender := testAddr(0xAA)
	budget := types.TransactionBudget{
		LeaderTimeout:     big.NewInt(100),
		ValidatorsTimeout: big.NewInt(200),
		Sender:            sender,
		Staking:           types.StakingConstant,
	}
	votes := make([]types.VoteEntry, 5)
	for i := range votes {
		votes[i] = types.VoteEntry{Address: testAddr(byte(0x10 + i)), Vote: types.NewVote(types.VoteAgree)}
	}
	rounds := []types.Round{{Rotations: []types.Rotation{{
		Leader: leader,
		Action: &types.LeaderAction{Kind: types.ActionReceipt, Vote: types.NewVote(types.VoteAgree)},
		Votes:  votes,
	}}}}
	participants := []common.Address{leader, sender}
	for i := range votes {
		participants = append(participants, votes[i].Address)
	}
	return core.ProcessTransaction(participants, rounds, budget)
}

func TestLookupTablesAreStable(t *testing.T) {
	names := LabelNames()
	require.Equal(t, len(types.AllLabels()), len(names))
	require.Equal(t, "NORMAL_ROUND", names[0])

	require.Equal(t, 0, LabelIndex(types.LabelNormalRound))
	label, ok := LabelAt(0)
	require.True(t, ok)
	require.Equal(t, types.LabelNormalRound, label)

	_, ok = LabelAt(len(names))
	require.False(t, ok)
	require.Equal(t, -1, LabelIndex(types.RoundLabel("NOT_A_LABEL")))

	node, ok := NodeAt(0)
	require.True(t, ok)
	require.Equal(t, "START", node)
	_, ok = NodeAt(len(NodeNames()))
	require.False(t, ok)
}

func TestBuildRecordAssignsParticipantIds(t *testing.T) {
	state := processedState(t)
	record := BuildRecord(state, []int{0, 1, 6}, 0x3FFFFF, "run-1")

	require.Equal(t, []int{0}, record.Labels)
	require.Equal(t, []int{0, 1, 6}, record.Path)
	require.Equal(t, uint32(0x3FFFFF), record.Invariants)

	// The sender is charged first, so it takes id 1.
	sender := record.Participants["1"]
	require.Equal(t, state.Budget.Sender.Hex(), sender.Address)
	require.NotEmpty(t, sender.Cost)

	leader := record.Participants["2"]
	require.Equal(t, testAddr(0x01).Hex(), leader.Address)
	require.Equal(t, "300", leader.Earned)
	require.Len(t, record.Participants, 7)
}

func TestRecordHashRoundTrip(t *testing.T) {
	state := processedState(t)
	record := BuildRecord(state, []int{0, 1, 6}, 0x3FFFFF, "run-1")
	require.True(t, record.Verify())

	var buf bytes.Buffer
	require.NoError(t, record.Encode(&buf))
	decoded, err := DecodeRecord(&buf)
	require.NoError(t, err)
	require.Equal(t, record.Hash, decoded.Hash)

	// Tampering breaks the content hash.
	decoded.Invariants = 0
	require.False(t, decoded.Verify())
}

func TestRecordHashIsDeterministic(t *testing.T) {
	state := processedState(t)
	first := BuildRecord(state, []int{0, 1, 6}, 0x3FFFFF, "run-1")
	second := BuildRecord(state, []int{0, 1, 6}, 0x3FFFFF, "run-1")
	require.Equal(t, first.Hash, second.Hash)

	differentRun := BuildRecord(state, []int{0, 1, 6}, 0x3FFFFF, "run-2")
	require.NotEqual(t, first.Hash, differentRun.Hash)
}
