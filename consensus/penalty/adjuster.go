package penalty

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"feesim/core/types"
)

// Infraction records one slashable offense discovered while screening a
// rotation: the offender, where it happened, and the stake portion forfeited.
type Infraction struct {
	Address       common.Address
	RoundIndex    int
	RotationIndex int
	Offense       Offense
	Vote          types.Vote
	Slash         *big.Int
}

// Adjustment is the outcome of screening every rotation of a transaction.
// Rounds is a rewrite of the input with idle validators replaced by reserve
// addresses; the originals are never mutated.
type Adjustment struct {
	Rounds      []types.Round
	Infractions []Infraction
	// Reserves maps each drafted reserve address back to the idle validator
	// it replaced.
	Reserves map[common.Address]common.Address
}

// InfractionsForRound filters the infractions recorded against one round.
func (a Adjustment) InfractionsForRound(index int) []Infraction {
	var out []Infraction
	for _, inf := range a.Infractions {
		if inf.RoundIndex == index {
			out = append(out, inf)
		}
	}
	return out
}

// AdjustRounds screens every rotation before labeling. Idle validators are
// swapped for deterministically derived reserve addresses and slashed at the
// idle rate; validators whose vote commits to a content hash different from
// the leader's receipt hash are slashed at the deterministic-violation rate.
// Stake is constant, so both slashes are computed against the initial stake.
func AdjustRounds(rounds []types.Round) Adjustment {
	adjusted := Adjustment{
		Rounds:   make([]types.Round, len(rounds)),
		Reserves: make(map[common.Address]common.Address),
	}
	for roundIdx, round := range rounds {
		rewritten := round.Clone()
		// An offender is slashed at most once per round per offense, even
		// when re-elections repeat the conduct.
		flagged := make(map[flagKey]bool)
		for rotationIdx := range rewritten.Rotations {
			rotation := &rewritten.Rotations[rotationIdx]
			for voteIdx := range rotation.Votes {
				entry := &rotation.Votes[voteIdx]
				switch {
				case entry.Vote.Kind == types.VoteIdle:
					reserve := ReserveAddress(entry.Address, roundIdx, rotationIdx)
					adjusted.Reserves[reserve] = entry.Address
					key := flagKey{address: entry.Address, offense: OffenseIdle}
					if !flagged[key] {
						flagged[key] = true
						adjusted.Infractions = append(adjusted.Infractions, Infraction{
							Address:       entry.Address,
							RoundIndex:    roundIdx,
							RotationIndex: rotationIdx,
							Offense:       OffenseIdle,
							Vote:          entry.Vote.Clone(),
							Slash:         SlashAmount(OffenseIdle, types.InitialStake()),
						})
					}
					entry.Address = reserve
				case hashMismatch(*rotation, entry.Vote):
					key := flagKey{address: entry.Address, offense: OffenseDeterministicViolation}
					if flagged[key] {
						continue
					}
					flagged[key] = true
					adjusted.Infractions = append(adjusted.Infractions, Infraction{
						Address:       entry.Address,
						RoundIndex:    roundIdx,
						RotationIndex: rotationIdx,
						Offense:       OffenseDeterministicViolation,
						Vote:          entry.Vote.Clone(),
						Slash:         SlashAmount(OffenseDeterministicViolation, types.InitialStake()),
					})
				}
			}
		}
		adjusted.Rounds[roundIdx] = rewritten
	}
	return adjusted
}

type flagKey struct {
	address common.Address
	offense Offense
}

// hashMismatch holds when the vote committed to a result hash that differs
// from the leader's receipt.
func hashMismatch(rotation types.Rotation, vote types.Vote) bool {
	if vote.Hash == nil {
		return false
	}
	if !rotation.HasLeaderAction() || rotation.Action.Kind != types.ActionReceipt {
		return false
	}
	return *vote.Hash != rotation.Action.ReceiptHash
}

// ReserveAddress derives the stand-in address drafted when the supplied
// validator sat out the given rotation. The derivation is pure, so repeated
// runs of the pipeline draft identical reserves.
func ReserveAddress(idle common.Address, roundIdx, rotationIdx int) common.Address {
	var position [16]byte
	binary.BigEndian.PutUint64(position[:8], uint64(roundIdx))
	binary.BigEndian.PutUint64(position[8:], uint64(rotationIdx))
	digest := crypto.Keccak256([]byte("feesim/reserve"), idle.Bytes(), position[:])
	return common.BytesToAddress(digest[12:])
}
