package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource resolves the current market price of a network's unit.
// How prices are acquired (feed, cache, static table) is an
// infrastructure concern; the core only consumes the lookup.
type PriceSource interface {
	Price(ctx context.Context, network string) (decimal.Decimal, error)
}
