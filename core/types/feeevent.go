package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Role identifies the capacity in which a participant appears on a fee event.
type Role string

const (
	RoleLeader    Role = "LEADER"
	RoleValidator Role = "VALIDATOR"
	RoleAppealant Role = "APPEALANT"
	RoleSender    Role = "SENDER"
)

// RefundRoundIndex marks fee events that belong to the transaction as a
// whole rather than to a specific round, such as the sender refund.
const RefundRoundIndex = -1

// FeeEvent is one immutable accounting record for one participant in one
// round. Events form an append-only log totally ordered by Sequence.
type FeeEvent struct {
	Sequence   uint64
	Address    common.Address
	RoundIndex int
	Label      RoundLabel
	Role       Role
	Vote       *Vote

	Earned  *big.Int
	Cost    *big.Int
	Burned  *big.Int
	Slashed *big.Int

	// StakeDelta is signed and reserved for staking models where a
	// transaction can move stake. The constant distribution emits zero.
	StakeDelta *big.Int
}

// Clone returns a deep copy of the event.
func (e FeeEvent) Clone() FeeEvent {
	clone := FeeEvent{
		Sequence:   e.Sequence,
		Address:    e.Address,
		RoundIndex: e.RoundIndex,
		Label:      e.Label,
		Role:       e.Role,
		Earned:     CopyBig(e.Earned),
		Cost:       CopyBig(e.Cost),
		Burned:     CopyBig(e.Burned),
		Slashed:    CopyBig(e.Slashed),
		StakeDelta: CopyBig(e.StakeDelta),
	}
	if e.Vote != nil {
		vote := e.Vote.Clone()
		clone.Vote = &vote
	}
	return clone
}

// CloneEvents deep-copies a fee event log.
func CloneEvents(events []FeeEvent) []FeeEvent {
	out := make([]FeeEvent, len(events))
	for i := range events {
		out[i] = events[i].Clone()
	}
	return out
}
