package fees

import (
	"math/big"
	"testing"

	"feesim/core/types"
)

func TestEmitterAssignsStrictSequence(t *testing.T) {
	emitter := NewEmitter()
	for i := 0; i < 5; i++ {
		emitter.earn(testAddr(0x10), 0, types.LabelNormalRound, types.RoleValidator, nil, big.NewInt(1))
	}
	events := emitter.Events()
	if len(events) != 5 {
		t.Fatalf("expected 5 events got %d", len(events))
	}
	for i, event := range events {
		if event.Sequence != uint64(i) {
			t.Fatalf("event %d has sequence %d", i, event.Sequence)
		}
	}
}

func TestEmitterNormalizesNilQuantities(t *testing.T) {
	emitter := NewEmitter()
	emitter.Emit(types.FeeEvent{Address: testAddr(0x10), RoundIndex: 0})
	event := emitter.Events()[0]
	for name, amount := range map[string]*big.Int{
		"earned": event.Earned, "cost": event.Cost,
		"burned": event.Burned, "slashed": event.Slashed, "stakeDelta": event.StakeDelta,
	} {
		if amount == nil || amount.Sign() != 0 {
			t.Fatalf("%s not normalized to zero: %v", name, amount)
		}
	}
}

func TestEmitterRejectsNegativeQuantities(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("a negative quantity must abort")
		}
	}()
	NewEmitter().Emit(types.FeeEvent{Earned: big.NewInt(-1)})
}

func TestEmitterSkipsZeroAmountHelpers(t *testing.T) {
	emitter := NewEmitter()
	emitter.earn(testAddr(0x10), 0, types.LabelNormalRound, types.RoleValidator, nil, big.NewInt(0))
	emitter.burn(testAddr(0x10), 0, types.LabelNormalRound, types.RoleValidator, nil, nil)
	if got := len(emitter.Events()); got != 0 {
		t.Fatalf("zero-amount helpers must not emit, got %d events", got)
	}
}
