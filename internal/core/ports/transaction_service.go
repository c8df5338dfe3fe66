package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RecordInput carries all data needed to record a transaction.
// Network, Quantity and UnitPrice are optional: the service fills the
// recorder's defaults (ETH, 80 units, current market price) when they
// are zero.
type RecordInput struct {
	Type      string
	Hash      string
	Network   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// TransactionView is the valued, display-ready projection of a single
// transaction. Monetary fields are floats at this boundary; all
// arithmetic behind it is decimal.
type TransactionView struct {
	ID           int64     `json:"id"`
	Type         string    `json:"transactionType"`
	Network      string    `json:"network"`
	Quantity     float64   `json:"qty"`
	UnitPrice    float64   `json:"price"`
	Hash         string    `json:"hash"`
	RecordedAt   time.Time `json:"recordedAt"`
	TxValue      float64   `json:"txValue"`
	CurrentValue float64   `json:"currentValue"`
}

// StatsView aggregates the owner's ledger: cost basis of open
// holdings, paper gain/loss on them, and the cost basis of quantity
// already sold.
type StatsView struct {
	Outlay     float64 `json:"outlay"`
	UnrealRev  float64 `json:"unrealrev"`
	SaleOutlay float64 `json:"saleoutlay"`
}

// RecordResult is returned after recording a transaction: the new
// transaction's valued view plus statistics over the full ledger.
type RecordResult struct {
	Transactions []TransactionView
	Stats        StatsView
}

// TransactionService defines the ledger use cases.
type TransactionService interface {
	Record(ctx context.Context, owner string, input RecordInput) (*RecordResult, error)
	List(ctx context.Context, owner string, filter ListFilter) ([]TransactionView, error)
	Get(ctx context.Context, owner string, id int64) (*TransactionView, error)
	Delete(ctx context.Context, owner string, id int64) error
	CreateView(ctx context.Context, owner, name string, transactionIDs []int64) error
}
