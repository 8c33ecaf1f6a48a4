package wire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"feesim/core/types"
)

const scenarioJSON = `{
  "name": "plain-agree",
  "budget": {
    "leaderTimeout": 100,
    "validatorsTimeout": 200,
    "sender": "0x00000000000000000000000000000000000000aa",
    "appeals": ["0x00000000000000000000000000000000000000bb"]
  },
  "rounds": [
    {
      "rotations": [
        {
          "leader": "0x0000000000000000000000000000000000000001",
          "action": "receipt",
          "receiptHash": "0x01",
          "leaderVote": "agree",
          "votes": [
            {"address": "0x0000000000000000000000000000000000000010", "vote": "agree", "hash": "0x01"},
            {"address": "0x0000000000000000000000000000000000000011", "vote": "disagree"},
            {"address": "0x0000000000000000000000000000000000000012", "vote": "idle"}
          ]
        }
      ]
    }
  ],
  "path": [0, 1, 6]
}`

func TestScenarioBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(scenarioJSON), 0o600))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.Equal(t, "plain-agree", scenario.Name)
	require.Equal(t, []int{0, 1, 6}, scenario.Path)

	participants, rounds, budget, err := scenario.Build()
	require.NoError(t, err)

	require.Equal(t, int64(100), budget.LeaderTimeout.Int64())
	require.Equal(t, int64(200), budget.ValidatorsTimeout.Int64())
	require.Equal(t, types.StakingConstant, budget.Staking)
	require.Len(t, budget.Appeals, 1)

	require.Len(t, rounds, 1)
	rotation := rounds[0].Last()
	require.True(t, rotation.HasLeaderAction())
	require.Equal(t, types.ActionReceipt, rotation.Action.Kind)
	require.Equal(t, types.VoteAgree, rotation.Action.Vote.Kind)
	require.Len(t, rotation.Votes, 3)
	require.Equal(t, types.VoteAgree, rotation.Votes[0].Vote.Kind)
	require.NotNil(t, rotation.Votes[0].Vote.Hash)
	require.Equal(t, types.VoteDisagree, rotation.Votes[1].Vote.Kind)
	require.Equal(t, types.VoteIdle, rotation.Votes[2].Vote.Kind)

	// Leader first, then validators in ballot order, then the appealant.
	require.Len(t, participants, 5)
	require.Equal(t, common.HexToAddress("0x01"), participants[0])
	require.Equal(t, common.HexToAddress("0xbb"), participants[4])
}

func TestScenarioBuildRejectsUnknownVote(t *testing.T) {
	scenario := Scenario{
		Budget: ScenarioBudget{LeaderTimeout: 100, ValidatorsTimeout: 200, Sender: "0xaa"},
		Rounds: []ScenarioRound{{Rotations: []ScenarioRotation{{
			Votes: []ScenarioVote{{Address: "0x10", Vote: "maybe"}},
		}}}},
	}
	_, _, _, err := scenario.Build()
	require.Error(t, err)
}

func TestScenarioBuildRejectsEmptyRound(t *testing.T) {
	scenario := Scenario{
		Budget: ScenarioBudget{LeaderTimeout: 100, ValidatorsTimeout: 200, Sender: "0xaa"},
		Rounds: []ScenarioRound{{}},
	}
	_, _, _, err := scenario.Build()
	require.Error(t, err)
}

func TestScenarioBuildRejectsUnknownAction(t *testing.T) {
	scenario := Scenario{
		Budget: ScenarioBudget{LeaderTimeout: 100, ValidatorsTimeout: 200, Sender: "0xaa"},
		Rounds: []ScenarioRound{{Rotations: []ScenarioRotation{{
			Leader: "0x01",
			Action: "shrug",
		}}}},
	}
	_, _, _, err := scenario.Build()
	require.Error(t, err)
}
