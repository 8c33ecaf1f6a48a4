package fees

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"feesim/core/types"
)

// BalanceSheet is the cumulative position of one address over the event log.
type BalanceSheet struct {
	Earned     *big.Int
	Cost       *big.Int
	Burned     *big.Int
	Slashed    *big.Int
	StakeDelta *big.Int
}

func newBalanceSheet() *BalanceSheet {
	return &BalanceSheet{
		Earned:     big.NewInt(0),
		Cost:       big.NewInt(0),
		Burned:     big.NewInt(0),
		Slashed:    big.NewInt(0),
		StakeDelta: big.NewInt(0),
	}
}

func (b *BalanceSheet) add(event types.FeeEvent) {
	b.Earned.Add(b.Earned, types.CopyBig(event.Earned))
	b.Cost.Add(b.Cost, types.CopyBig(event.Cost))
	b.Burned.Add(b.Burned, types.CopyBig(event.Burned))
	b.Slashed.Add(b.Slashed, types.CopyBig(event.Slashed))
	b.StakeDelta.Add(b.StakeDelta, types.CopyBig(event.StakeDelta))
}

// Net returns stake plus earnings minus every outflow: the collateralized
// position the non-negative-balance invariant quantifies.
func (b *BalanceSheet) Net(stake *big.Int) *big.Int {
	net := types.CopyBig(stake)
	net.Add(net, b.Earned)
	net.Sub(net, b.Cost)
	net.Sub(net, b.Burned)
	net.Sub(net, b.Slashed)
	return net
}

// Ledger projects the event log into per-address balance sheets.
type Ledger struct {
	sheets map[common.Address]*BalanceSheet
}

// ProjectBalances folds the event log into a ledger.
func ProjectBalances(events []types.FeeEvent) *Ledger {
	ledger := &Ledger{sheets: make(map[common.Address]*BalanceSheet)}
	for _, event := range events {
		sheet, ok := ledger.sheets[event.Address]
		if !ok {
			sheet = newBalanceSheet()
			ledger.sheets[event.Address] = sheet
		}
		sheet.add(event)
	}
	return ledger
}

// Sheet returns the balance sheet for an address, zero-valued when the
// address never appeared in the log.
func (l *Ledger) Sheet(addr common.Address) *BalanceSheet {
	if sheet, ok := l.sheets[addr]; ok {
		return sheet
	}
	return newBalanceSheet()
}

// Addresses returns every address in the ledger in bytewise order, so callers
// iterate deterministically.
func (l *Ledger) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(l.sheets))
	for addr := range l.sheets {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return addrs
}

// Totals aggregates the four quantities over the whole log. Sender earnings
// are the refund and are tracked apart from participant earnings.
type Totals struct {
	Earned  *big.Int
	Cost    *big.Int
	Burned  *big.Int
	Slashed *big.Int
	Refund  *big.Int
}

// SumTotals folds the event log into transaction-wide totals.
func SumTotals(events []types.FeeEvent) Totals {
	totals := Totals{
		Earned:  big.NewInt(0),
		Cost:    big.NewInt(0),
		Burned:  big.NewInt(0),
		Slashed: big.NewInt(0),
		Refund:  big.NewInt(0),
	}
	for _, event := range events {
		if event.Role == types.RoleSender && event.RoundIndex == types.RefundRoundIndex {
			totals.Refund.Add(totals.Refund, types.CopyBig(event.Earned))
			continue
		}
		totals.Earned.Add(totals.Earned, types.CopyBig(event.Earned))
		totals.Cost.Add(totals.Cost, types.CopyBig(event.Cost))
		totals.Burned.Add(totals.Burned, types.CopyBig(event.Burned))
		totals.Slashed.Add(totals.Slashed, types.CopyBig(event.Slashed))
	}
	return totals
}
