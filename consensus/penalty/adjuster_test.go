package penalty

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core/types"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func receiptRotation(receipt common.Hash, votes ...types.VoteEntry) types.Rotation {
	return types.Rotation{
		Leader: addr(0x01),
		Action: &types.LeaderAction{
			Kind:        types.ActionReceipt,
			ReceiptHash: receipt,
			Vote:        types.NewVote(types.VoteAgree),
		},
		Votes: votes,
	}
}

func TestAdjustReplacesIdleValidators(t *testing.T) {
	idle := addr(0x10)
	rounds := []types.Round{{Rotations: []types.Rotation{receiptRotation(common.Hash{},
		types.VoteEntry{Address: idle, Vote: types.NewVote(types.VoteIdle)},
		types.VoteEntry{Address: addr(0x11), Vote: types.NewVote(types.VoteAgree)},
	)}}}

	adjusted := AdjustRounds(rounds)

	rewritten := adjusted.Rounds[0].Last()
	if rewritten.Votes[0].Address == idle {
		t.Fatal("idle validator must be replaced with a reserve")
	}
	if rewritten.Votes[0].Vote.Kind != types.VoteIdle {
		t.Fatalf("reserve keeps the idle marker, got %s", rewritten.Votes[0].Vote.Kind)
	}
	if original := rounds[0].Last().Votes[0].Address; original != idle {
		t.Fatal("input rounds must not be mutated")
	}
	if got := adjusted.Reserves[rewritten.Votes[0].Address]; got != idle {
		t.Fatalf("reserve must map back to the idle validator, got %s", got.Hex())
	}

	if len(adjusted.Infractions) != 1 {
		t.Fatalf("expected 1 infraction got %d", len(adjusted.Infractions))
	}
	inf := adjusted.Infractions[0]
	if inf.Offense != OffenseIdle || inf.Address != idle {
		t.Fatalf("unexpected infraction %+v", inf)
	}
	want := SlashAmount(OffenseIdle, types.InitialStake())
	if inf.Slash.Cmp(want) != 0 {
		t.Fatalf("idle slash: expected %s got %s", want, inf.Slash)
	}
}

func TestAdjustFlagsHashMismatch(t *testing.T) {
	receipt := common.HexToHash("0xaa")
	divergent := common.HexToHash("0xbb")
	offender := addr(0x12)
	rounds := []types.Round{{Rotations: []types.Rotation{receiptRotation(receipt,
		types.VoteEntry{Address: addr(0x11), Vote: types.NewHashedVote(types.VoteAgree, receipt)},
		types.VoteEntry{Address: offender, Vote: types.NewHashedVote(types.VoteAgree, divergent)},
	)}}}

	adjusted := AdjustRounds(rounds)

	if len(adjusted.Infractions) != 1 {
		t.Fatalf("expected 1 infraction got %d", len(adjusted.Infractions))
	}
	inf := adjusted.Infractions[0]
	if inf.Offense != OffenseDeterministicViolation || inf.Address != offender {
		t.Fatalf("unexpected infraction %+v", inf)
	}
	// The offender keeps its seat; only the slash is recorded.
	if adjusted.Rounds[0].Last().Votes[1].Address != offender {
		t.Fatal("hash mismatch must not unseat the validator")
	}
}

func TestAdjustIgnoresHashesWithoutReceipt(t *testing.T) {
	rounds := []types.Round{{Rotations: []types.Rotation{{
		Votes: []types.VoteEntry{
			{Address: addr(0x11), Vote: types.NewHashedVote(types.VoteAgree, common.HexToHash("0xcc"))},
		},
	}}}}
	adjusted := AdjustRounds(rounds)
	if len(adjusted.Infractions) != 0 {
		t.Fatalf("no receipt means no mismatch, got %d infractions", len(adjusted.Infractions))
	}
}

func TestReserveAddressDeterminism(t *testing.T) {
	first := ReserveAddress(addr(0x10), 2, 0)
	second := ReserveAddress(addr(0x10), 2, 0)
	if first != second {
		t.Fatal("reserve derivation must be pure")
	}
	if first == ReserveAddress(addr(0x10), 3, 0) {
		t.Fatal("different rounds draft different reserves")
	}
	if first == ReserveAddress(addr(0x11), 2, 0) {
		t.Fatal("different validators draft different reserves")
	}
}

func TestSlashAmounts(t *testing.T) {
	stake := big.NewInt(100_000)
	if got := SlashAmount(OffenseIdle, stake); got.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("idle slash: expected 10000 got %s", got)
	}
	if got := SlashAmount(OffenseDeterministicViolation, stake); got.Cmp(stake) != 0 {
		t.Fatalf("deterministic violation forfeits the full stake, got %s", got)
	}
	if got := SlashAmount(Offense("UNKNOWN"), stake); got.Sign() != 0 {
		t.Fatalf("unknown offenses slash nothing, got %s", got)
	}
}
