package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// VoteKind enumerates the vote variants a participant can cast within a
// rotation.
type VoteKind string

const (
	VoteAgree         VoteKind = "AGREE"
	VoteDisagree      VoteKind = "DISAGREE"
	VoteTimeout       VoteKind = "TIMEOUT"
	VoteIdle          VoteKind = "IDLE"
	VoteNotApplicable VoteKind = "NA"
)

// Valid reports whether the kind belongs to the closed vote set.
func (k VoteKind) Valid() bool {
	switch k {
	case VoteAgree, VoteDisagree, VoteTimeout, VoteIdle, VoteNotApplicable:
		return true
	}
	return false
}

// Vote couples a vote kind with the optional content hash the voter committed
// to. The hash is compared against the leader's receipt hash when screening
// for deterministic violations.
type Vote struct {
	Kind VoteKind
	Hash *common.Hash
}

// NewVote constructs a vote without a content hash.
func NewVote(kind VoteKind) Vote {
	return Vote{Kind: kind}
}

// NewHashedVote constructs a vote committed to the supplied content hash.
func NewHashedVote(kind VoteKind, hash common.Hash) Vote {
	return Vote{Kind: kind, Hash: &hash}
}

// Clone returns a copy of the vote with its own hash allocation.
func (v Vote) Clone() Vote {
	clone := Vote{Kind: v.Kind}
	if v.Hash != nil {
		hash := *v.Hash
		clone.Hash = &hash
	}
	return clone
}

// ActionKind enumerates what the round's leader submitted.
type ActionKind string

const (
	ActionReceipt ActionKind = "RECEIPT"
	ActionTimeout ActionKind = "LEADER_TIMEOUT"
)

// LeaderAction records the leader's submission for a rotation together with
// the follow-up vote the leader casts on its own result.
type LeaderAction struct {
	Kind        ActionKind
	ReceiptHash common.Hash
	Vote        Vote
}

// Clone returns a deep copy of the action.
func (a *LeaderAction) Clone() *LeaderAction {
	if a == nil {
		return nil
	}
	return &LeaderAction{Kind: a.Kind, ReceiptHash: a.ReceiptHash, Vote: a.Vote.Clone()}
}

// VoteEntry binds a validator address to the vote it cast. Entries keep the
// order in which the rotation listed them so downstream iteration stays
// deterministic.
type VoteEntry struct {
	Address common.Address
	Vote    Vote
}

// Rotation is a single election attempt inside a round. Leader and Action are
// zero-valued for rotations where no leader acted, such as validator appeals.
type Rotation struct {
	Leader common.Address
	Action *LeaderAction
	Votes  []VoteEntry
}

// HasLeaderAction reports whether the rotation carries a leader submission.
func (r Rotation) HasLeaderAction() bool {
	return r.Action != nil
}

// Addresses returns every participant of the rotation, leader first when one
// acted, in input order.
func (r Rotation) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(r.Votes)+1)
	if r.HasLeaderAction() {
		addrs = append(addrs, r.Leader)
	}
	for _, entry := range r.Votes {
		addrs = append(addrs, entry.Address)
	}
	return addrs
}

// VoteFor returns the vote cast by the supplied validator address.
func (r Rotation) VoteFor(addr common.Address) (Vote, bool) {
	for _, entry := range r.Votes {
		if entry.Address == addr {
			return entry.Vote, true
		}
	}
	return Vote{}, false
}

// Clone returns a deep copy of the rotation.
func (r Rotation) Clone() Rotation {
	votes := make([]VoteEntry, len(r.Votes))
	for i, entry := range r.Votes {
		votes[i] = VoteEntry{Address: entry.Address, Vote: entry.Vote.Clone()}
	}
	return Rotation{Leader: r.Leader, Action: r.Action.Clone(), Votes: votes}
}

// Round is an ordered, non-empty sequence of rotations. The last rotation is
// the one whose content determines the round label; earlier rotations are
// superseded re-elections.
type Round struct {
	Rotations []Rotation
}

// Last returns the rotation that determines the round outcome.
func (r Round) Last() Rotation {
	if len(r.Rotations) == 0 {
		return Rotation{}
	}
	return r.Rotations[len(r.Rotations)-1]
}

// Clone returns a deep copy of the round.
func (r Round) Clone() Round {
	rotations := make([]Rotation, len(r.Rotations))
	for i := range r.Rotations {
		rotations[i] = r.Rotations[i].Clone()
	}
	return Round{Rotations: rotations}
}
