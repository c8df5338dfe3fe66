package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cointrail/tracker-api/internal/core/domain"
)

const viewsCollection = "views"

type ViewRepository struct {
	coll *mongo.Collection
}

func NewViewRepository(db *mongo.Database) *ViewRepository {
	return &ViewRepository{coll: db.Collection(viewsCollection)}
}

type mongoView struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Owner          string             `bson:"owner"`
	Name           string             `bson:"name,omitempty"`
	TransactionIDs []int64            `bson:"transaction_ids"`
	CreatedAt      int64              `bson:"created_at"`
}

func (r *ViewRepository) Create(ctx context.Context, view *domain.View) error {
	doc := mongoView{
		Owner:          view.Owner,
		Name:           view.Name,
		TransactionIDs: view.TransactionIDs,
		CreatedAt:      view.CreatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		view.ID = oid.Hex()
	}
	return nil
}
