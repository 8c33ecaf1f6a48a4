package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"feesim/consensus/labels"
	"feesim/consensus/penalty"
	"feesim/core/types"
	"feesim/native/fees"
)

// TransactionState is the complete, immutable result of processing one
// transaction: the adjusted rounds, their labels, the fee event log, and the
// bindings the invariant registry quantifies over.
type TransactionState struct {
	Participants []common.Address
	Budget       types.TransactionBudget

	// OriginalRounds is the ground-truth input; Rounds is the idleness
	// adjuster's rewrite the rest of the pipeline ran on.
	OriginalRounds []types.Round
	Rounds         []types.Round

	Labels   []types.RoundLabel
	Outcomes []labels.Outcome

	Events []types.FeeEvent
	Refund *big.Int

	Bonds       map[int]*big.Int
	Appealants  map[int]common.Address
	Infractions []penalty.Infraction
	Stakes      map[common.Address]*big.Int
}

// ProcessTransaction runs the full pipeline: idleness and violation
// adjustment, labeling, per-round fee distribution, and the sender refund.
// The function is pure and total; invalid sequences still produce a state,
// which the invariant registry then reports on.
func ProcessTransaction(participants []common.Address, rounds []types.Round, budget types.TransactionBudget) *TransactionState {
	adjustment := penalty.AdjustRounds(rounds)
	sequence, outcomes := labels.LabelRounds(adjustment.Rounds)

	result := fees.Distribute(fees.Input{
		Rounds:      adjustment.Rounds,
		Labels:      sequence,
		Outcomes:    outcomes,
		Budget:      budget,
		Infractions: adjustment.Infractions,
	})

	state := &TransactionState{
		Participants:   append([]common.Address(nil), participants...),
		Budget:         budget.Clone(),
		OriginalRounds: cloneRounds(rounds),
		Rounds:         adjustment.Rounds,
		Labels:         sequence,
		Outcomes:       outcomes,
		Events:         result.Events,
		Refund:         result.Refund,
		Bonds:          result.Bonds,
		Appealants:     result.Appealants,
		Infractions:    adjustment.Infractions,
		Stakes:         constantStakes(participants, adjustment),
	}
	return state
}

// constantStakes assigns the fixed initial stake to every declared
// participant plus any reserve the adjuster drafted.
func constantStakes(participants []common.Address, adjustment penalty.Adjustment) map[common.Address]*big.Int {
	stakes := make(map[common.Address]*big.Int, len(participants))
	for _, addr := range participants {
		stakes[addr] = types.InitialStake()
	}
	for reserve := range adjustment.Reserves {
		stakes[reserve] = types.InitialStake()
	}
	return stakes
}

// Stake returns the stake bound to an address for this transaction. Unknown
// addresses hold the constant initial stake as well; the distribution is
// constant by definition.
func (s *TransactionState) Stake(addr common.Address) *big.Int {
	if stake, ok := s.Stakes[addr]; ok {
		return types.CopyBig(stake)
	}
	return types.InitialStake()
}

func cloneRounds(rounds []types.Round) []types.Round {
	out := make([]types.Round, len(rounds))
	for i := range rounds {
		out[i] = rounds[i].Clone()
	}
	return out
}
