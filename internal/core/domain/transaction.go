package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a recorded transaction.
type TransactionType string

const (
	TypeBuy  TransactionType = "BUY"
	TypeSell TransactionType = "SELL"
)

// Valid reports whether t is one of the recognized transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeBuy || t == TypeSell
}

// TrackedTransaction is a single buy or sell event recorded against a
// named network, owned by exactly one user. IDs are assigned in
// monotonic creation order, so listing by id equals insertion order.
type TrackedTransaction struct {
	ID         int64
	Owner      string
	Type       TransactionType
	Network    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Hash       string
	RecordedAt time.Time
}

// View is a named saved selection of transaction ids.
type View struct {
	ID             string
	Owner          string
	Name           string
	TransactionIDs []int64
	CreatedAt      time.Time
}
