package pricefeed

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStaticSource_DefaultQuotes(t *testing.T) {
	source := NewStaticSource(nil)

	price, err := source.Price(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("price error: %v", err)
	}
	if !price.Equal(decimal.NewFromFloat(1931.45)) {
		t.Fatalf("unexpected ETH price: %s", price)
	}

	if _, err := source.Price(context.Background(), "DOGE"); err == nil {
		t.Fatal("expected error for unquoted network")
	}
}

func TestStaticSource_SetQuote(t *testing.T) {
	source := NewStaticSource(map[string]decimal.Decimal{
		"ETH": decimal.NewFromInt(1000),
	})

	source.SetQuote("ETH", decimal.NewFromInt(2500))
	source.SetQuote("SOL", decimal.NewFromInt(95))

	price, err := source.Price(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("price error: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected overwritten quote, got %s", price)
	}

	networks := source.Networks()
	if len(networks) != 2 {
		t.Fatalf("expected 2 networks, got %v", networks)
	}
}

func TestStaticSource_ConcurrentAccess(t *testing.T) {
	source := NewStaticSource(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			source.SetQuote("ETH", decimal.NewFromInt(2000))
		}()
		go func() {
			defer wg.Done()
			if _, err := source.Price(context.Background(), "ETH"); err != nil {
				t.Errorf("price error: %v", err)
			}
		}()
	}
	wg.Wait()
}
