package fees

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"feesim/consensus/appeals"
	"feesim/consensus/labels"
	"feesim/consensus/penalty"
	"feesim/core/types"
)

// Input bundles everything distribution needs: the post-adjustment rounds,
// their final labels and tallies, the sender budget, and the infractions the
// adjuster recorded.
type Input struct {
	Rounds      []types.Round
	Labels      []types.RoundLabel
	Outcomes    []labels.Outcome
	Budget      types.TransactionBudget
	Infractions []penalty.Infraction
}

// Result is the distribution output: the complete fee event log including the
// sender refund, plus the bond and appealant bindings resolved along the way.
type Result struct {
	Events     []types.FeeEvent
	Refund     *big.Int
	Bonds      map[int]*big.Int
	Appealants map[int]common.Address
}

type distributor struct {
	in        Input
	emitter   *Emitter
	bonds     map[int]*big.Int
	appealant map[int]common.Address
	// residuals holds bond remainders an unsuccessful appeal leaves for a
	// follow-up round to redistribute, keyed by appeal round index.
	residuals map[int]*big.Int
}

type strategyFunc func(d *distributor, round int)

// strategies is the per-label distribution catalog. Every label in the closed
// set has an entry; a missing entry is a bug caught at distribution time.
var strategies = map[types.RoundLabel]strategyFunc{
	types.LabelNormalRound:                          (*distributor).normalRound,
	types.LabelSkipRound:                            (*distributor).noEvents,
	types.LabelEmptyRound:                           (*distributor).noEvents,
	types.LabelAppealLeaderSuccessful:               (*distributor).appealLeaderSuccessful,
	types.LabelAppealLeaderUnsuccessful:             (*distributor).appealUnsuccessful,
	types.LabelAppealValidatorSuccessful:            (*distributor).appealValidatorSuccessful,
	types.LabelAppealValidatorUnsuccessful:          (*distributor).appealUnsuccessful,
	types.LabelAppealLeaderTimeoutSuccessful:        (*distributor).appealLeaderTimeoutSuccessful,
	types.LabelAppealLeaderTimeoutUnsuccessful:      (*distributor).appealUnsuccessful,
	types.LabelLeaderTimeout50Percent:               (*distributor).leaderTimeout50Percent,
	types.LabelLeaderTimeout150PreviousNormalRound:  (*distributor).leaderTimeout150,
	types.LabelLeaderTimeout50PreviousAppealBond:    (*distributor).leaderTimeout50PreviousAppealBond,
	types.LabelSplitPreviousAppealBond:              (*distributor).splitPreviousAppealBond,
}

// Distribute walks the rounds in order, applying the per-label strategy for
// each, and closes the log with the sender refund.
func Distribute(in Input) Result {
	d := &distributor{
		in:        in,
		emitter:   NewEmitter(),
		bonds:     appeals.Bonds(in.Labels, in.Budget),
		appealant: make(map[int]common.Address),
		residuals: make(map[int]*big.Int),
	}
	ordinal := 0
	for i, label := range in.Labels {
		if !label.IsAppeal() {
			continue
		}
		if ordinal < len(in.Budget.Appeals) {
			d.appealant[i] = in.Budget.Appeals[ordinal].Appealant
		}
		ordinal++
	}

	for i := range in.Rounds {
		label := in.Labels[i]
		d.emitReservation(i)
		d.emitBondCost(i)
		d.emitSlashes(i)
		strategy, ok := strategies[label]
		if !ok {
			panic(fmt.Sprintf("fees: no distribution strategy for label %q", label))
		}
		strategy(d, i)
	}

	refund := ComputeRefund(d.emitter.Events())
	d.emitter.earn(in.Budget.Sender, types.RefundRoundIndex, "", types.RoleSender, nil, refund)

	return Result{
		Events:     d.emitter.Events(),
		Refund:     refund,
		Bonds:      d.bonds,
		Appealants: d.appealant,
	}
}

// emitReservation charges the sender the maximum spend the round authorizes:
// one leader quantum plus one validator quantum per seat. The leader's own
// vote occupies a paid seat.
func (d *distributor) emitReservation(round int) {
	label := d.in.Labels[round]
	if label == types.LabelEmptyRound {
		return
	}
	amount := Reservation(d.in.Rounds[round].Last(), d.in.Budget)
	d.emitter.cost(d.in.Budget.Sender, round, label, types.RoleSender, amount)
}

// emitBondCost charges the appealant its posted bond when the round is an
// appeal.
func (d *distributor) emitBondCost(round int) {
	bond, ok := d.bonds[round]
	if !ok {
		return
	}
	d.emitter.cost(d.appealant[round], round, d.in.Labels[round], types.RoleAppealant, bond)
}

// emitSlashes applies the adjuster's findings for the round. Slashes come out
// of stake, exactly once per infraction, against the offender's original
// address.
func (d *distributor) emitSlashes(round int) {
	for _, inf := range d.in.Infractions {
		if inf.RoundIndex != round {
			continue
		}
		vote := inf.Vote
		d.emitter.slash(inf.Address, round, d.in.Labels[round], &vote, types.CopyBig(inf.Slash))
	}
}

func (d *distributor) noEvents(int) {}

// previousAppeal returns the nearest appeal round before the supplied index.
func (d *distributor) previousAppeal(round int) int {
	for j := round - 1; j >= 0; j-- {
		if d.in.Labels[j].IsAppeal() {
			return j
		}
	}
	return -1
}

// carriesResidualForward reports whether the round after an unsuccessful
// appeal redistributes the bond remainder instead of this round burning it.
func (d *distributor) carriesResidualForward(round int) bool {
	next := round + 1
	if next >= len(d.in.Labels) {
		return false
	}
	switch d.in.Labels[next] {
	case types.LabelSplitPreviousAppealBond, types.LabelLeaderTimeout50PreviousAppealBond:
		return true
	}
	return false
}

// Reservation computes the sender's authorized spend for one rotation.
func Reservation(rotation types.Rotation, budget types.TransactionBudget) *big.Int {
	seats := int64(len(rotation.Votes))
	if rotation.HasLeaderAction() {
		seats++
	}
	amount := new(big.Int).Mul(big.NewInt(seats), types.CopyBig(budget.ValidatorsTimeout))
	return amount.Add(amount, types.CopyBig(budget.LeaderTimeout))
}
