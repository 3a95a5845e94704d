// internal/app/store/employees/store.go
package employees

import (
	"context"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the backing collection name.
const Collection = "employees"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Add inserts a new employee and stamps timestamps.
func (s *Store) Add(ctx context.Context, e models.Employee) (models.Employee, error) {
	e.ID = primitive.NewObjectID()
	e.Name = normalize.Name(e.Name)
	e.Contact = normalize.Contact(e.Contact)

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Employee{}, opserr.Write("insert employee", err)
	}
	return e, nil
}

// GetByID loads an employee by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var e models.Employee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, opserr.Read("load employee", err)
	}
	return &e, nil
}

// List returns all employees sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Employee, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, opserr.Read("list employees", err)
	}
	defer cur.Close(ctx)

	var out []models.Employee
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode employees", err)
	}
	return out, nil
}

// Update merges fields and stamps updated_at.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return opserr.Write("update employee", err)
	}
	if res.MatchedCount == 0 {
		return opserr.Writef("update employee: no document %s", id.Hex())
	}
	return nil
}

// Remove deletes the employee document. Callers run the attendance/image
// cascade first; dependents go before the parent.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete employee", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete employee: no document %s", id.Hex())
	}
	return nil
}
