package fees

import (
	"math/big"

	"feesim/core/types"
)

// ComputeRefund returns the unused budget flowing back to the sender: every
// cost charged, minus everything participants earned or burned. Slashes are
// funded from stake and never touch the refund. A clear floor at zero keeps
// the refund event well-formed; the conservation invariant reports any state
// where the floor actually bit.
func ComputeRefund(events []types.FeeEvent) *big.Int {
	refund := big.NewInt(0)
	for _, event := range events {
		refund.Add(refund, types.CopyBig(event.Cost))
		refund.Sub(refund, types.CopyBig(event.Earned))
		refund.Sub(refund, types.CopyBig(event.Burned))
	}
	if refund.Sign() < 0 {
		return big.NewInt(0)
	}
	return refund
}
