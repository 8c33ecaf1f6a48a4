package fees

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core/types"
)

// Emitter builds the append-only fee event log. Sequence numbers are assigned
// in emission order and are strictly increasing; emitted events are never
// revisited.
type Emitter struct {
	next   uint64
	events []types.FeeEvent
}

// NewEmitter returns an emitter starting at sequence zero.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit appends one event, assigning its sequence number. Nil quantities are
// normalised to zero. A negative quantity is a strategy bug and aborts.
func (e *Emitter) Emit(event types.FeeEvent) {
	event.Earned = nonNegative("earned", event.Earned)
	event.Cost = nonNegative("cost", event.Cost)
	event.Burned = nonNegative("burned", event.Burned)
	event.Slashed = nonNegative("slashed", event.Slashed)
	if event.StakeDelta == nil {
		event.StakeDelta = big.NewInt(0)
	}
	event.Sequence = e.next
	e.next++
	e.events = append(e.events, event)
}

// Events returns the emitted log in sequence order.
func (e *Emitter) Events() []types.FeeEvent {
	return e.events
}

func nonNegative(field string, v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	if v.Sign() < 0 {
		panic(fmt.Sprintf("fees: %s quantity went negative (%s)", field, v))
	}
	return new(big.Int).Set(v)
}

func (e *Emitter) earn(addr common.Address, round int, label types.RoundLabel, role types.Role, vote *types.Vote, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	e.Emit(types.FeeEvent{Address: addr, RoundIndex: round, Label: label, Role: role, Vote: cloneVote(vote), Earned: amount})
}

func (e *Emitter) cost(addr common.Address, round int, label types.RoundLabel, role types.Role, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	e.Emit(types.FeeEvent{Address: addr, RoundIndex: round, Label: label, Role: role, Cost: amount})
}

func (e *Emitter) burn(addr common.Address, round int, label types.RoundLabel, role types.Role, vote *types.Vote, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	e.Emit(types.FeeEvent{Address: addr, RoundIndex: round, Label: label, Role: role, Vote: cloneVote(vote), Burned: amount})
}

func (e *Emitter) slash(addr common.Address, round int, label types.RoundLabel, vote *types.Vote, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	e.Emit(types.FeeEvent{Address: addr, RoundIndex: round, Label: label, Role: types.RoleValidator, Vote: cloneVote(vote), Slashed: amount})
}

func cloneVote(v *types.Vote) *types.Vote {
	if v == nil {
		return nil
	}
	clone := v.Clone()
	return &clone
}
