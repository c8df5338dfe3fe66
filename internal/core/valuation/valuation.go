// Package valuation derives per-transaction values and aggregate
// statistics from an ordered transaction ledger and a current-price
// lookup. It is a pure read-side projection: it never mutates the
// ledger and performs no implicit rounding.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/core/domain"
)

// PriceFunc resolves the current market price for a network.
type PriceFunc func(network string) (decimal.Decimal, error)

// Snapshot is the valuation of a single transaction.
type Snapshot struct {
	TransactionID int64
	TxValue       decimal.Decimal // quantity × unit price at recording
	CurrentValue  decimal.Decimal // quantity × current market price
}

// Stats aggregates a ledger's open and realized positions.
type Stats struct {
	Outlay     decimal.Decimal // cost basis of open (unsold) BUY quantity
	UnrealRev  decimal.Decimal // current value − cost basis, open quantity only
	SaleOutlay decimal.Decimal // cost basis of quantity consumed by SELLs
}

// LotMatcher assigns SELL quantity against prior BUY quantity and
// reports, per BUY transaction id, how much quantity remains open.
// Transactions arrive in recording order; matching is per network.
type LotMatcher interface {
	OpenQuantities(txs []domain.TrackedTransaction) map[int64]decimal.Decimal
}

// FIFOMatcher consumes BUY lots oldest-first. A SELL larger than the
// open BUY quantity on its network exhausts every open lot; the excess
// matches nothing.
type FIFOMatcher struct{}

type openLot struct {
	id        int64
	remaining decimal.Decimal
}

// OpenQuantities implements LotMatcher.
func (FIFOMatcher) OpenQuantities(txs []domain.TrackedTransaction) map[int64]decimal.Decimal {
	open := make(map[int64]decimal.Decimal, len(txs))
	lots := make(map[string][]openLot)

	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeBuy:
			lots[tx.Network] = append(lots[tx.Network], openLot{id: tx.ID, remaining: tx.Quantity})
			open[tx.ID] = tx.Quantity
		case domain.TypeSell:
			toSell := tx.Quantity
			queue := lots[tx.Network]
			for len(queue) > 0 && toSell.IsPositive() {
				lot := &queue[0]
				if lot.remaining.GreaterThan(toSell) {
					lot.remaining = lot.remaining.Sub(toSell)
					open[lot.id] = lot.remaining
					toSell = decimal.Zero
				} else {
					toSell = toSell.Sub(lot.remaining)
					open[lot.id] = decimal.Zero
					queue = queue[1:]
				}
			}
			lots[tx.Network] = queue
		}
	}
	return open
}

// Engine computes valuations using a pluggable lot-matching policy.
type Engine struct {
	matcher LotMatcher
}

// NewEngine returns an Engine. A nil matcher selects FIFO.
func NewEngine(matcher LotMatcher) *Engine {
	if matcher == nil {
		matcher = FIFOMatcher{}
	}
	return &Engine{matcher: matcher}
}

// Valuate computes one Snapshot per transaction plus aggregate Stats.
//
// Open BUY quantity contributes its cost to Outlay and its paper
// gain/loss to UnrealRev. BUY quantity consumed by later SELLs
// contributes its original cost to SaleOutlay instead. SELL rows carry
// a snapshot but add nothing to the aggregates themselves.
func (e *Engine) Valuate(txs []domain.TrackedTransaction, price PriceFunc) ([]Snapshot, Stats, error) {
	stats := Stats{
		Outlay:     decimal.Zero,
		UnrealRev:  decimal.Zero,
		SaleOutlay: decimal.Zero,
	}
	if len(txs) == 0 {
		return nil, stats, nil
	}

	current := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if _, ok := current[tx.Network]; ok {
			continue
		}
		p, err := price(tx.Network)
		if err != nil {
			return nil, Stats{}, err
		}
		current[tx.Network] = p
	}

	open := e.matcher.OpenQuantities(txs)

	snapshots := make([]Snapshot, 0, len(txs))
	for _, tx := range txs {
		snapshots = append(snapshots, Snapshot{
			TransactionID: tx.ID,
			TxValue:       tx.Quantity.Mul(tx.UnitPrice),
			CurrentValue:  tx.Quantity.Mul(current[tx.Network]),
		})

		if tx.Type != domain.TypeBuy {
			continue
		}
		openQty := open[tx.ID]
		consumedQty := tx.Quantity.Sub(openQty)

		stats.Outlay = stats.Outlay.Add(openQty.Mul(tx.UnitPrice))
		stats.SaleOutlay = stats.SaleOutlay.Add(consumedQty.Mul(tx.UnitPrice))
		stats.UnrealRev = stats.UnrealRev.Add(openQty.Mul(current[tx.Network].Sub(tx.UnitPrice)))
	}
	return snapshots, stats, nil
}
