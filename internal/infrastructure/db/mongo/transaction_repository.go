package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cointrail/tracker-api/internal/core/domain"
	"github.com/cointrail/tracker-api/internal/core/ports"
)

const (
	transactionsCollection = "tracked_transactions"
	countersCollection     = "counters"
	transactionsCounterID  = "tracked_transactions"
)

type TransactionRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		coll:     db.Collection(transactionsCollection),
		counters: db.Collection(countersCollection),
	}
}

// mongoTransaction stores quantity and price as decimal strings to keep
// exact values across the driver boundary.
type mongoTransaction struct {
	ID         int64     `bson:"_id"`
	Owner      string    `bson:"owner"`
	Type       string    `bson:"type"`
	Network    string    `bson:"network"`
	Quantity   string    `bson:"quantity"`
	UnitPrice  string    `bson:"unit_price"`
	Hash       string    `bson:"hash"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// nextID claims the next value of the monotonic transaction sequence.
func (r *TransactionRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": transactionsCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next transaction id: %w", err)
	}
	return counter.Seq, nil
}

func (r *TransactionRepository) Append(ctx context.Context, tx *domain.TrackedTransaction) (*domain.TrackedTransaction, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	created := *tx
	created.ID = id
	if created.RecordedAt.IsZero() {
		created.RecordedAt = time.Now().UTC()
	}

	doc := mongoTransaction{
		ID:         created.ID,
		Owner:      created.Owner,
		Type:       string(created.Type),
		Network:    created.Network,
		Quantity:   created.Quantity.String(),
		UnitPrice:  created.UnitPrice.String(),
		Hash:       created.Hash,
		RecordedAt: created.RecordedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return &created, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, owner string, id int64) (*domain.TrackedTransaction, error) {
	var mt mongoTransaction
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return mt.toDomain()
}

func (r *TransactionRepository) List(ctx context.Context, owner string, filter ports.ListFilter) ([]domain.TrackedTransaction, error) {
	query := bson.M{"owner": owner}
	if len(filter.Networks) > 0 {
		query["network"] = bson.M{"$in": filter.Networks}
	}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		rangeQuery := bson.M{}
		if !filter.DateFrom.IsZero() {
			rangeQuery["$gte"] = startOfDay(filter.DateFrom)
		}
		if !filter.DateTo.IsZero() {
			// Inclusive on the date boundary: anything before the next day.
			rangeQuery["$lt"] = startOfDay(filter.DateTo).AddDate(0, 0, 1)
		}
		query["recorded_at"] = rangeQuery
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []domain.TrackedTransaction
	for cursor.Next(ctx) {
		var mt mongoTransaction
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		tx, err := mt.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, owner string, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("wipe transactions: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner and owner+network query indexes.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "network", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "recorded_at", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (mt mongoTransaction) toDomain() (*domain.TrackedTransaction, error) {
	quantity, err := decimal.NewFromString(mt.Quantity)
	if err != nil {
		return nil, fmt.Errorf("decode quantity %q: %w", mt.Quantity, err)
	}
	unitPrice, err := decimal.NewFromString(mt.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("decode unit price %q: %w", mt.UnitPrice, err)
	}
	return &domain.TrackedTransaction{
		ID:         mt.ID,
		Owner:      mt.Owner,
		Type:       domain.TransactionType(mt.Type),
		Network:    mt.Network,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Hash:       mt.Hash,
		RecordedAt: mt.RecordedAt.UTC(),
	}, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
