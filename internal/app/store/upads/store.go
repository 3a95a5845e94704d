// internal/app/store/upads/store.go
package upads

import (
	"context"
	"fmt"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the backing collection name.
const Collection = "upads"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Add inserts an advance record.
func (s *Store) Add(ctx context.Context, u models.UpadRecord) (models.UpadRecord, error) {
	u.ID = primitive.NewObjectID()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.UpadRecord{}, opserr.Write("insert upad", err)
	}
	return u, nil
}

// ListByEmployee returns all advances for an employee, newest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.UpadRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"employee_id": employeeID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, opserr.Read("list upads", err)
	}
	defer cur.Close(ctx)

	var out []models.UpadRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode upads", err)
	}
	return out, nil
}

// ListByEmployeeMonth returns the employee's advances dated in a month.
func (s *Store) ListByEmployeeMonth(ctx context.Context, employeeID primitive.ObjectID, year int, month time.Month) ([]models.UpadRecord, error) {
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	to := fmt.Sprintf("%04d-%02d-32", year, month)

	cur, err := s.c.Find(ctx, bson.M{
		"employee_id": employeeID,
		"date":        bson.M{"$gte": from, "$lt": to},
	}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, opserr.Read("list upads by month", err)
	}
	defer cur.Close(ctx)

	var out []models.UpadRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode upads", err)
	}
	return out, nil
}

// Remove deletes one advance record.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete upad", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete upad: no document %s", id.Hex())
	}
	return nil
}
