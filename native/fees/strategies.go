package fees

import (
	"math/big"

	"feesim/consensus/labels"
	"feesim/consensus/penalty"
	"feesim/core/types"
)

// normalRound pays a round that produced a leader receipt. With a clear
// majority the leader earns both quanta, majority validators earn the
// validator quantum, and dissenters burn theirs. An undetermined round pays
// everyone their quantum and the leader only its own.
func (d *distributor) normalRound(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	majority := d.in.Outcomes[round].Majority
	lt := types.CopyBig(d.in.Budget.LeaderTimeout)
	vt := types.CopyBig(d.in.Budget.ValidatorsTimeout)

	if majority.Determined() {
		leaderEarn := new(big.Int).Add(lt, vt)
		d.emitter.earn(rotation.Leader, round, label, types.RoleLeader, leaderActionVote(rotation), leaderEarn)
		d.payByMajority(round, label, rotation, majority, vt)
		return
	}

	d.emitter.earn(rotation.Leader, round, label, types.RoleLeader, leaderActionVote(rotation), lt)
	d.payAllValidators(round, label, rotation, vt)
}

// payByMajority walks the validator entries in input order: majority voters
// earn the quantum, determined dissenters burn the penalty, and reserve
// stand-ins holding an idle marker are compensated without penalty.
func (d *distributor) payByMajority(round int, label types.RoundLabel, rotation types.Rotation, majority labels.Majority, quantum *big.Int) {
	burnAmount := new(big.Int).Mul(big.NewInt(penalty.RewardFactor), quantum)
	for _, entry := range rotation.Votes {
		vote := entry.Vote
		switch {
		case majority.Matches(vote.Kind):
			d.emitter.earn(entry.Address, round, label, types.RoleValidator, &vote, types.CopyBig(quantum))
		case vote.Kind == types.VoteIdle:
			d.emitter.earn(entry.Address, round, label, types.RoleValidator, &vote, types.CopyBig(quantum))
		case vote.Kind == types.VoteNotApplicable:
			// No opinion was solicited; nothing to pay or burn.
		default:
			d.emitter.burn(entry.Address, round, label, types.RoleValidator, &vote, types.CopyBig(burnAmount))
		}
	}
}

// payAllValidators compensates every seated validator, attendance included.
func (d *distributor) payAllValidators(round int, label types.RoundLabel, rotation types.Rotation, quantum *big.Int) {
	for _, entry := range rotation.Votes {
		vote := entry.Vote
		d.emitter.earn(entry.Address, round, label, types.RoleValidator, &vote, types.CopyBig(quantum))
	}
}

// appealLeaderSuccessful refunds the bond with the leader quantum on top and
// pays the appeal seats from the sender budget.
func (d *distributor) appealLeaderSuccessful(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	bond := types.CopyBig(d.bonds[round])
	reward := new(big.Int).Add(bond, types.CopyBig(d.in.Budget.LeaderTimeout))
	d.emitter.earn(d.appealant[round], round, label, types.RoleAppealant, nil, reward)
	d.payAllValidators(round, label, rotation, types.CopyBig(d.in.Budget.ValidatorsTimeout))
}

// appealLeaderTimeoutSuccessful mirrors a successful leader appeal against a
// timed-out round.
func (d *distributor) appealLeaderTimeoutSuccessful(round int) {
	d.appealLeaderSuccessful(round)
}

// appealValidatorSuccessful refunds the bond and settles the appeal seats by
// the appeal's own validator majority.
func (d *distributor) appealValidatorSuccessful(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	d.emitter.earn(d.appealant[round], round, label, types.RoleAppealant, nil, types.CopyBig(d.bonds[round]))
	d.payByMajority(round, label, rotation, d.in.Outcomes[round].ValidatorMajority, types.CopyBig(d.in.Budget.ValidatorsTimeout))
}

// appealUnsuccessful forfeits the bond: the appeal seats are paid out of it
// and the remainder is burned, unless the following round was rewritten to
// redistribute it.
func (d *distributor) appealUnsuccessful(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	vt := types.CopyBig(d.in.Budget.ValidatorsTimeout)
	d.payAllValidators(round, label, rotation, vt)

	bond := types.CopyBig(d.bonds[round])
	spent := new(big.Int).Mul(big.NewInt(int64(len(rotation.Votes))), vt)
	residual := new(big.Int).Sub(bond, spent)
	if residual.Sign() <= 0 {
		return
	}
	if d.carriesResidualForward(round) {
		d.residuals[round] = residual
		return
	}
	d.emitter.burn(d.appealant[round], round, label, types.RoleAppealant, nil, residual)
}

// leaderTimeout50Percent compensates a leader that timed out partway: half
// the leader quantum, floor division, the rest flowing back to the sender via
// the refund.
func (d *distributor) leaderTimeout50Percent(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	half := new(big.Int).Div(types.CopyBig(d.in.Budget.LeaderTimeout), big.NewInt(2))
	d.emitter.earn(rotation.Leader, round, label, types.RoleLeader, leaderActionVote(rotation), half)
}

// leaderTimeout150 pays the leader that recovered from a predecessor's
// timeout at one and a half quanta, floor division on odd quanta.
func (d *distributor) leaderTimeout150(round int) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	earn := new(big.Int).Mul(big.NewInt(3), types.CopyBig(d.in.Budget.LeaderTimeout))
	earn.Div(earn, big.NewInt(2))
	d.emitter.earn(rotation.Leader, round, label, types.RoleLeader, leaderActionVote(rotation), earn)
	d.payAllValidators(round, label, rotation, types.CopyBig(d.in.Budget.ValidatorsTimeout))
}

// leaderTimeout50PreviousAppealBond pays the leader its quantum and splits
// half the carried bond remainder across the seats; the other half and any
// split dust are burned against the appealant.
func (d *distributor) leaderTimeout50PreviousAppealBond(round int) {
	d.splitCarriedResidual(round, true)
}

// splitPreviousAppealBond pays the leader its quantum and splits the whole
// carried bond remainder across the seats, burning the floor-division dust.
func (d *distributor) splitPreviousAppealBond(round int) {
	d.splitCarriedResidual(round, false)
}

func (d *distributor) splitCarriedResidual(round int, halve bool) {
	rotation := d.in.Rounds[round].Last()
	label := d.in.Labels[round]
	d.emitter.earn(rotation.Leader, round, label, types.RoleLeader, leaderActionVote(rotation), types.CopyBig(d.in.Budget.LeaderTimeout))

	appealRound := d.previousAppeal(round)
	if appealRound < 0 {
		return
	}
	residual := types.CopyBig(d.residuals[appealRound])
	if residual.Sign() <= 0 {
		return
	}
	pool := new(big.Int).Set(residual)
	if halve {
		pool.Div(pool, big.NewInt(2))
	}
	seats := int64(len(rotation.Votes))
	distributed := big.NewInt(0)
	if seats > 0 && pool.Sign() > 0 {
		share := new(big.Int).Div(pool, big.NewInt(seats))
		if share.Sign() > 0 {
			for _, entry := range rotation.Votes {
				vote := entry.Vote
				d.emitter.earn(entry.Address, round, label, types.RoleValidator, &vote, types.CopyBig(share))
			}
			distributed.Mul(share, big.NewInt(seats))
		}
	}
	// Whatever the split could not place, halved remainder and dust alike,
	// is burned so the bond stays fully accounted.
	burn := new(big.Int).Sub(residual, distributed)
	d.emitter.burn(d.appealant[appealRound], round, label, types.RoleAppealant, nil, burn)
}

func leaderActionVote(rotation types.Rotation) *types.Vote {
	if !rotation.HasLeaderAction() {
		return nil
	}
	vote := rotation.Action.Vote.Clone()
	return &vote
}
