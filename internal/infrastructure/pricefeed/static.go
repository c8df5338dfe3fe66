// Package pricefeed supplies current market prices to the core. The
// core only ever sees the ports.PriceSource lookup; acquisition,
// caching and refresh live here.
package pricefeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// StaticSource serves prices from an in-memory quote table. It is the
// process's authoritative source of record; deployments that plug in a
// live feed update the table through SetQuote.
type StaticSource struct {
	mu     sync.RWMutex
	quotes map[string]decimal.Decimal
}

// DefaultQuotes seeds the networks the reference frontend records on.
func DefaultQuotes() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"ETH": decimal.NewFromFloat(1931.45),
		"BTC": decimal.NewFromFloat(29042.10),
	}
}

// NewStaticSource builds a StaticSource from quotes; a nil map selects
// DefaultQuotes.
func NewStaticSource(quotes map[string]decimal.Decimal) *StaticSource {
	if quotes == nil {
		quotes = DefaultQuotes()
	}
	return &StaticSource{quotes: quotes}
}

// Price implements ports.PriceSource.
func (s *StaticSource) Price(_ context.Context, network string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.quotes[network]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no quote for network %q", network)
	}
	return price, nil
}

// SetQuote overwrites the quote for a network.
func (s *StaticSource) SetQuote(network string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[network] = price
}

// Networks returns the set of quoted networks.
func (s *StaticSource) Networks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	networks := make([]string, 0, len(s.quotes))
	for network := range s.quotes {
		networks = append(networks, network)
	}
	return networks
}
