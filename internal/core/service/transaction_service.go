package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/api/metrics"
	"github.com/cointrail/tracker-api/internal/core/domain"
	"github.com/cointrail/tracker-api/internal/core/ports"
	"github.com/cointrail/tracker-api/internal/core/valuation"
)

// Recording defaults applied when the client omits the fields. The
// reference frontend only submits type and hash.
const (
	defaultNetwork = "ETH"
)

var defaultQuantity = decimal.NewFromInt(80)

type transactionService struct {
	ledger ports.TransactionRepository
	views  ports.ViewRepository
	prices ports.PriceSource
	engine *valuation.Engine
	log    zerolog.Logger
}

// NewTransactionService returns a TransactionService combining the
// ledger repository, the view repository, the price source and a
// valuation engine (nil engine selects the FIFO default).
func NewTransactionService(
	ledger ports.TransactionRepository,
	views ports.ViewRepository,
	prices ports.PriceSource,
	engine *valuation.Engine,
	log zerolog.Logger,
) ports.TransactionService {
	if engine == nil {
		engine = valuation.NewEngine(nil)
	}
	return &transactionService{ledger: ledger, views: views, prices: prices, engine: engine, log: log}
}

// Record validates and appends a transaction, then returns its valued
// view plus statistics recomputed over the owner's full ledger.
func (s *transactionService) Record(ctx context.Context, owner string, input ports.RecordInput) (*ports.RecordResult, error) {
	txType := domain.TransactionType(input.Type)
	if !txType.Valid() {
		metrics.TransactionsRejectedTotal.WithLabelValues("invalid_type").Inc()
		return nil, domain.ErrInvalidTransactionType
	}

	network := input.Network
	if network == "" {
		network = defaultNetwork
	}
	quantity := input.Quantity
	if quantity.IsZero() {
		quantity = defaultQuantity
	}
	unitPrice := input.UnitPrice
	if unitPrice.IsZero() {
		current, err := s.prices.Price(ctx, network)
		if err != nil {
			return nil, fmt.Errorf("record: resolve unit price: %w", err)
		}
		unitPrice = current
	}

	created, err := s.ledger.Append(ctx, &domain.TrackedTransaction{
		Owner:     owner,
		Type:      txType,
		Network:   network,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Hash:      input.Hash,
	})
	if err != nil {
		return nil, fmt.Errorf("record: append: %w", err)
	}

	s.log.Info().
		Int64("transaction_id", created.ID).
		Str("owner", owner).
		Str("type", string(created.Type)).
		Str("network", created.Network).
		Msg("transaction recorded")
	metrics.TransactionsRecordedTotal.WithLabelValues(string(created.Type), created.Network).Inc()

	views, stats, err := s.valuedViews(ctx, owner, ports.ListFilter{})
	if err != nil {
		return nil, err
	}

	result := &ports.RecordResult{Stats: stats}
	for _, v := range views {
		if v.ID == created.ID {
			result.Transactions = []ports.TransactionView{v}
			break
		}
	}
	return result, nil
}

// List returns the owner's valued transactions in insertion order.
func (s *transactionService) List(ctx context.Context, owner string, filter ports.ListFilter) ([]ports.TransactionView, error) {
	views, _, err := s.valuedViews(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Get returns a single valued transaction owned by owner.
func (s *transactionService) Get(ctx context.Context, owner string, id int64) (*ports.TransactionView, error) {
	tx, err := s.ledger.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	snapshots, _, err := s.valuate(ctx, []domain.TrackedTransaction{*tx})
	if err != nil {
		return nil, err
	}
	view := newTransactionView(*tx, snapshots[0])
	return &view, nil
}

// Delete removes a transaction. Deleting an absent or unowned id fails
// with domain.ErrTransactionNotFound.
func (s *transactionService) Delete(ctx context.Context, owner string, id int64) error {
	if err := s.ledger.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.log.Info().Int64("transaction_id", id).Str("owner", owner).Msg("transaction deleted")
	return nil
}

// CreateView persists a named selection of the owner's transaction ids.
func (s *transactionService) CreateView(ctx context.Context, owner, name string, transactionIDs []int64) error {
	view := &domain.View{
		Owner:          owner,
		Name:           name,
		TransactionIDs: transactionIDs,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.views.Create(ctx, view); err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	return nil
}

// valuedViews lists, valuates and projects the owner's transactions.
// Stats always cover the filtered set that was actually listed.
func (s *transactionService) valuedViews(ctx context.Context, owner string, filter ports.ListFilter) ([]ports.TransactionView, ports.StatsView, error) {
	txs, err := s.ledger.List(ctx, owner, filter)
	if err != nil {
		return nil, ports.StatsView{}, fmt.Errorf("list transactions: %w", err)
	}

	snapshots, stats, err := s.valuate(ctx, txs)
	if err != nil {
		return nil, ports.StatsView{}, err
	}

	views := make([]ports.TransactionView, 0, len(txs))
	for i, tx := range txs {
		views = append(views, newTransactionView(tx, snapshots[i]))
	}
	return views, ports.StatsView{
		Outlay:     stats.Outlay.InexactFloat64(),
		UnrealRev:  stats.UnrealRev.InexactFloat64(),
		SaleOutlay: stats.SaleOutlay.InexactFloat64(),
	}, nil
}

func (s *transactionService) valuate(ctx context.Context, txs []domain.TrackedTransaction) ([]valuation.Snapshot, valuation.Stats, error) {
	timer := prometheus.NewTimer(metrics.ValuationDuration)
	defer timer.ObserveDuration()

	return s.engine.Valuate(txs, func(network string) (decimal.Decimal, error) {
		return s.prices.Price(ctx, network)
	})
}

func newTransactionView(tx domain.TrackedTransaction, snap valuation.Snapshot) ports.TransactionView {
	return ports.TransactionView{
		ID:           tx.ID,
		Type:         string(tx.Type),
		Network:      tx.Network,
		Quantity:     tx.Quantity.InexactFloat64(),
		UnitPrice:    tx.UnitPrice.InexactFloat64(),
		Hash:         tx.Hash,
		RecordedAt:   tx.RecordedAt,
		TxValue:      snap.TxValue.InexactFloat64(),
		CurrentValue: snap.CurrentValue.InexactFloat64(),
	}
}
