// internal/app/store/expenses/store.go
package expenses

import (
	"context"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the backing collection name.
const Collection = "otherExpenses"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Add inserts an expense ledger entry.
func (s *Store) Add(ctx context.Context, e models.OtherExpense) (models.OtherExpense, error) {
	e.ID = primitive.NewObjectID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.OtherExpense{}, opserr.Write("insert expense", err)
	}
	return e, nil
}

// List returns all expenses, newest first.
func (s *Store) List(ctx context.Context) ([]models.OtherExpense, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, opserr.Read("list expenses", err)
	}
	defer cur.Close(ctx)

	var out []models.OtherExpense
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode expenses", err)
	}
	return out, nil
}

// ListByDate returns the expenses dated on a calendar date.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.OtherExpense, error) {
	cur, err := s.c.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, opserr.Read("list expenses by date", err)
	}
	defer cur.Close(ctx)

	var out []models.OtherExpense
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode expenses", err)
	}
	return out, nil
}

// Remove deletes one expense entry.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete expense", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete expense: no document %s", id.Hex())
	}
	return nil
}
