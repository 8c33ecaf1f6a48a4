package wire

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core/types"
)

// Scenario is the JSON input format the simulator consumes: a budget, the
// ground-truth rounds, and optionally the generator path that produced them.
type Scenario struct {
	Name   string         `json:"name,omitempty"`
	Budget ScenarioBudget `json:"budget"`
	Rounds []ScenarioRound `json:"rounds"`
	Path   []int          `json:"path,omitempty"`
}

// ScenarioBudget mirrors types.TransactionBudget in JSON form.
type ScenarioBudget struct {
	LeaderTimeout     int64    `json:"leaderTimeout"`
	ValidatorsTimeout int64    `json:"validatorsTimeout"`
	Sender            string   `json:"sender"`
	Appeals           []string `json:"appeals,omitempty"`
	Staking           string   `json:"staking,omitempty"`
}

// ScenarioRound lists a round's rotations, last one decisive.
type ScenarioRound struct {
	Rotations []ScenarioRotation `json:"rotations"`
}

// ScenarioRotation carries the leader action and the validator votes of one
// election attempt.
type ScenarioRotation struct {
	Leader      string         `json:"leader,omitempty"`
	Action      string         `json:"action,omitempty"`
	ReceiptHash string         `json:"receiptHash,omitempty"`
	LeaderVote  string         `json:"leaderVote,omitempty"`
	Votes       []ScenarioVote `json:"votes"`
}

// ScenarioVote is one validator ballot.
type ScenarioVote struct {
	Address string `json:"address"`
	Vote    string `json:"vote"`
	Hash    string `json:"hash,omitempty"`
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (Scenario, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("wire: read scenario: %w", err)
	}
	var scenario Scenario
	if err := json.Unmarshal(blob, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("wire: decode scenario: %w", err)
	}
	return scenario, nil
}

// Build converts the scenario into pipeline inputs. The participant roster is
// every address the rounds mention, in first-appearance order, followed by
// the budget's appealants; the sender is not part of the roster.
func (s Scenario) Build() ([]common.Address, []types.Round, types.TransactionBudget, error) {
	budget := types.TransactionBudget{
		LeaderTimeout:     big.NewInt(s.Budget.LeaderTimeout),
		ValidatorsTimeout: big.NewInt(s.Budget.ValidatorsTimeout),
		Sender:            common.HexToAddress(s.Budget.Sender),
		Staking:           types.StakingConstant,
	}
	if s.Budget.Staking != "" {
		budget.Staking = types.StakingDistribution(strings.ToUpper(s.Budget.Staking))
	}
	for _, appealant := range s.Budget.Appeals {
		budget.Appeals = append(budget.Appeals, types.AppealRole{Appealant: common.HexToAddress(appealant)})
	}

	seen := make(map[common.Address]bool)
	var participants []common.Address
	note := func(addr common.Address) {
		if addr != (common.Address{}) && !seen[addr] {
			seen[addr] = true
			participants = append(participants, addr)
		}
	}

	rounds := make([]types.Round, len(s.Rounds))
	for i, round := range s.Rounds {
		if len(round.Rotations) == 0 {
			return nil, nil, types.TransactionBudget{}, fmt.Errorf("wire: round %d has no rotations", i)
		}
		for _, rotation := range round.Rotations {
			built, err := rotation.build()
			if err != nil {
				return nil, nil, types.TransactionBudget{}, fmt.Errorf("wire: round %d: %w", i, err)
			}
			note(built.Leader)
			for _, entry := range built.Votes {
				note(entry.Address)
			}
			rounds[i].Rotations = append(rounds[i].Rotations, built)
		}
	}
	for _, appeal := range budget.Appeals {
		note(appeal.Appealant)
	}
	return participants, rounds, budget, nil
}

func (r ScenarioRotation) build() (types.Rotation, error) {
	rotation := types.Rotation{Leader: common.HexToAddress(r.Leader)}
	if r.Action != "" {
		kind := types.ActionKind(strings.ToUpper(r.Action))
		if kind != types.ActionReceipt && kind != types.ActionTimeout {
			return types.Rotation{}, fmt.Errorf("unknown leader action %q", r.Action)
		}
		vote, err := parseVote(r.LeaderVote, "")
		if err != nil {
			return types.Rotation{}, err
		}
		rotation.Action = &types.LeaderAction{
			Kind:        kind,
			ReceiptHash: common.HexToHash(r.ReceiptHash),
			Vote:        vote,
		}
	}
	for _, ballot := range r.Votes {
		vote, err := parseVote(ballot.Vote, ballot.Hash)
		if err != nil {
			return types.Rotation{}, err
		}
		rotation.Votes = append(rotation.Votes, types.VoteEntry{
			Address: common.HexToAddress(ballot.Address),
			Vote:    vote,
		})
	}
	return rotation, nil
}

func parseVote(raw, hash string) (types.Vote, error) {
	kind := types.VoteKind(strings.ToUpper(strings.TrimSpace(raw)))
	if kind == "" {
		kind = types.VoteAgree
	}
	if !kind.Valid() {
		return types.Vote{}, fmt.Errorf("unknown vote %q", raw)
	}
	if hash == "" {
		return types.NewVote(kind), nil
	}
	return types.NewHashedVote(kind, common.HexToHash(hash)), nil
}
