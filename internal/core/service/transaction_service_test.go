package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/core/domain"
	"github.com/cointrail/tracker-api/internal/core/ports"
)

type stubLedger struct {
	txs    []domain.TrackedTransaction
	nextID int64
}

func newStubLedger() *stubLedger {
	return &stubLedger{nextID: 1}
}

func (l *stubLedger) Append(_ context.Context, tx *domain.TrackedTransaction) (*domain.TrackedTransaction, error) {
	created := *tx
	created.ID = l.nextID
	l.nextID++
	if created.RecordedAt.IsZero() {
		created.RecordedAt = time.Now().UTC()
	}
	l.txs = append(l.txs, created)
	return &created, nil
}

func (l *stubLedger) FindByID(_ context.Context, owner string, id int64) (*domain.TrackedTransaction, error) {
	for _, tx := range l.txs {
		if tx.ID == id && tx.Owner == owner {
			found := tx
			return &found, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (l *stubLedger) List(_ context.Context, owner string, filter ports.ListFilter) ([]domain.TrackedTransaction, error) {
	var out []domain.TrackedTransaction
	for _, tx := range l.txs {
		if tx.Owner != owner {
			continue
		}
		if len(filter.Networks) > 0 && !containsString(filter.Networks, tx.Network) {
			continue
		}
		if !filter.DateFrom.IsZero() && tx.RecordedAt.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && !tx.RecordedAt.Before(filter.DateTo.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (l *stubLedger) Delete(_ context.Context, owner string, id int64) error {
	for i, tx := range l.txs {
		if tx.ID == id && tx.Owner == owner {
			l.txs = append(l.txs[:i], l.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (l *stubLedger) DeleteAll(context.Context) error {
	l.txs = nil
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type stubViewRepo struct {
	created []*domain.View
}

func (r *stubViewRepo) Create(_ context.Context, view *domain.View) error {
	r.created = append(r.created, view)
	return nil
}

type stubPriceSource struct {
	quotes map[string]float64
}

func (s *stubPriceSource) Price(_ context.Context, network string) (decimal.Decimal, error) {
	p, ok := s.quotes[network]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no quote for %q", network)
	}
	return decimal.NewFromFloat(p), nil
}

func newTestTransactionService(ledger *stubLedger, views *stubViewRepo) ports.TransactionService {
	return NewTransactionService(
		ledger,
		views,
		&stubPriceSource{quotes: map[string]float64{"ETH": 2000, "BTC": 30000}},
		nil,
		zerolog.Nop(),
	)
}

func TestTransactionService_Record_InvalidType(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	_, err := svc.Record(context.Background(), "u1", ports.RecordInput{
		Type: "asdfkusgadfasdf",
		Hash: "0xf9e1",
	})
	if !errors.Is(err, domain.ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
	}
	if len(ledger.txs) != 0 {
		t.Fatalf("rejected record must not create a row, ledger has %d", len(ledger.txs))
	}
}

func TestTransactionService_Record_Defaults(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	result, err := svc.Record(context.Background(), "u1", ports.RecordInput{
		Type: "BUY",
		Hash: "0x69fc",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	if len(result.Transactions) != 1 {
		t.Fatalf("expected the new transaction's view, got %d", len(result.Transactions))
	}
	view := result.Transactions[0]
	if view.Network != "ETH" {
		t.Fatalf("default network: got %q", view.Network)
	}
	if view.Quantity != 80 {
		t.Fatalf("default quantity: got %v", view.Quantity)
	}
	if view.UnitPrice != 2000 {
		t.Fatalf("default unit price must come from the price source, got %v", view.UnitPrice)
	}
	if view.Hash != "0x69fc" {
		t.Fatalf("hash: got %q", view.Hash)
	}
	if view.TxValue != 80*2000 {
		t.Fatalf("txValue: got %v", view.TxValue)
	}
}

func TestTransactionService_Record_StatsOverFullLedger(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	mustRecord := func(typ string) *ports.RecordResult {
		t.Helper()
		result, err := svc.Record(context.Background(), "u1", ports.RecordInput{Type: typ, Hash: "0x0"})
		if err != nil {
			t.Fatalf("Record(%s) returned error: %v", typ, err)
		}
		return result
	}

	mustRecord("BUY")
	second := mustRecord("BUY")
	if second.Stats.SaleOutlay != 0 {
		t.Fatalf("nothing sold yet: saleoutlay %v", second.Stats.SaleOutlay)
	}
	if second.Stats.Outlay != 2*80*2000 {
		t.Fatalf("outlay over both buys: got %v", second.Stats.Outlay)
	}

	third := mustRecord("SELL")
	// The sell consumes the oldest buy in full.
	if third.Stats.SaleOutlay != 80*2000 {
		t.Fatalf("saleoutlay after sell: got %v", third.Stats.SaleOutlay)
	}
	if third.Stats.Outlay != 80*2000 {
		t.Fatalf("outlay after sell: got %v", third.Stats.Outlay)
	}
}

func TestTransactionService_ListFilters(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	for _, network := range []string{"ETH", "ETH", "BTC"} {
		if _, err := svc.Record(context.Background(), "u1", ports.RecordInput{Type: "BUY", Network: network}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	all, err := svc.List(context.Background(), "u1", ports.ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}
	// Insertion order.
	if all[0].ID != 1 || all[1].ID != 2 || all[2].ID != 3 {
		t.Fatalf("expected insertion order, got %d %d %d", all[0].ID, all[1].ID, all[2].ID)
	}

	eth, err := svc.List(context.Background(), "u1", ports.ListFilter{Networks: []string{"ETH"}})
	if err != nil {
		t.Fatalf("List(ETH) returned error: %v", err)
	}
	if len(eth) != 2 {
		t.Fatalf("expected 2 ETH transactions, got %d", len(eth))
	}

	union, err := svc.List(context.Background(), "u1", ports.ListFilter{Networks: []string{"ETH", "BTC"}})
	if err != nil {
		t.Fatalf("List(ETH,BTC) returned error: %v", err)
	}
	if len(union) != 3 {
		t.Fatalf("expected 3 transactions for the union, got %d", len(union))
	}

	doge, err := svc.List(context.Background(), "u1", ports.ListFilter{Networks: []string{"DOGE"}})
	if err != nil {
		t.Fatalf("List(DOGE) returned error: %v", err)
	}
	if len(doge) != 0 {
		t.Fatalf("expected no DOGE transactions, got %d", len(doge))
	}
}

func TestTransactionService_OwnerScoping(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	result, err := svc.Record(context.Background(), "u1", ports.RecordInput{Type: "BUY"})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	id := result.Transactions[0].ID

	if _, err := svc.Get(context.Background(), "u2", id); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("another owner's get must be not-found, got %v", err)
	}
	if err := svc.Delete(context.Background(), "u2", id); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("another owner's delete must be not-found, got %v", err)
	}

	// The real owner still sees it.
	if _, err := svc.Get(context.Background(), "u1", id); err != nil {
		t.Fatalf("owner's get failed: %v", err)
	}
}

func TestTransactionService_DeleteIsIdempotentFailure(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})

	result, err := svc.Record(context.Background(), "u1", ports.RecordInput{Type: "BUY"})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	id := result.Transactions[0].ID

	if err := svc.Delete(context.Background(), "u1", id); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	remaining, err := svc.List(context.Background(), "u1", ports.ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty ledger after delete, got %d", len(remaining))
	}

	if err := svc.Delete(context.Background(), "u1", id); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("second delete must report not-found, got %v", err)
	}
}

func TestTransactionService_CreateView(t *testing.T) {
	ledger := newStubLedger()
	views := &stubViewRepo{}
	svc := newTestTransactionService(ledger, views)

	if err := svc.CreateView(context.Background(), "u1", "my view", []int64{1, 2}); err != nil {
		t.Fatalf("CreateView returned error: %v", err)
	}
	if len(views.created) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views.created))
	}
	v := views.created[0]
	if v.Owner != "u1" || len(v.TransactionIDs) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
}

// End-to-end ledger scenario from the frontend's acceptance flow.
func TestTransactionService_Scenario(t *testing.T) {
	ledger := newStubLedger()
	svc := newTestTransactionService(ledger, &stubViewRepo{})
	ctx := context.Background()

	for _, typ := range []string{"BUY", "BUY", "SELL"} {
		if _, err := svc.Record(ctx, "u1", ports.RecordInput{Type: typ}); err != nil {
			t.Fatalf("Record(%s) returned error: %v", typ, err)
		}
	}

	all, _ := svc.List(ctx, "u1", ports.ListFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}

	if err := svc.Delete(ctx, "u1", all[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	remaining, _ := svc.List(ctx, "u1", ports.ListFilter{})
	if len(remaining) != 2 {
		t.Fatalf("expected 2 after delete, got %d", len(remaining))
	}

	eth, _ := svc.List(ctx, "u1", ports.ListFilter{Networks: []string{"ETH"}})
	if len(eth) != 2 {
		t.Fatalf("expected 2 ETH transactions, got %d", len(eth))
	}
	btc, _ := svc.List(ctx, "u1", ports.ListFilter{Networks: []string{"BTC"}})
	if len(btc) != 0 {
		t.Fatalf("expected 0 BTC transactions, got %d", len(btc))
	}
}
