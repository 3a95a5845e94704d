// internal/app/store/pendingworks/store.go
package pendingworks

import (
	"context"
	"errors"
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
const Collection = "pendingWorks"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var errBadStatus = errors.New(`status must be "pending"|"in-progress"|"completed"`)

// Add inserts a new work after normalizing fields and stamping timestamps.
// Returns the stored record with its generated ID.
func (s *Store) Add(ctx context.Context, w models.PendingWork) (models.PendingWork, error) {
	w.ID = primitive.NewObjectID()
	w.CustomerName = normalize.Name(w.CustomerName)
	w.Contact = normalize.Contact(w.Contact)
	if w.Status == "" {
		w.Status = models.WorkStatusPending
	}
	if !models.ValidWorkStatus(w.Status) {
		return models.PendingWork{}, errBadStatus
	}
	if w.Type == "" {
		w.Type = models.WorkTypeIndividual
	}

	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.PendingWork{}, opserr.Write("insert pending work", err)
	}
	return w, nil
}

// GetByID loads a work by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PendingWork, error) {
	var w models.PendingWork
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, opserr.Read("load pending work", err)
	}
	return &w, nil
}

// List returns works filtered by status ("" means all), newest first.
func (s *Store) List(ctx context.Context, status string) ([]models.PendingWork, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, opserr.Read("list pending works", err)
	}
	defer cur.Close(ctx)

	var works []models.PendingWork
	if err := cur.All(ctx, &works); err != nil {
		return nil, opserr.Read("decode pending works", err)
	}
	return works, nil
}

// Update merges fields into the work and stamps updated_at. A write against
// an unknown id is a store write failure.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return opserr.Write("update pending work", err)
	}
	if res.MatchedCount == 0 {
		return opserr.Writef("update pending work: no document %s", id.Hex())
	}
	return nil
}

// SetStatus transitions the work and stamps start/completed times:
// in-progress sets start_time once, completed sets completed_time.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string, now time.Time) error {
	if !models.ValidWorkStatus(status) {
		return errBadStatus
	}

	set := bson.M{"status": status, "updated_at": now}
	switch status {
	case models.WorkStatusInProgress:
		set["start_time"] = now
	case models.WorkStatusCompleted:
		set["completed_time"] = now
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return opserr.Write("set work status", err)
	}
	if res.MatchedCount == 0 {
		return opserr.Writef("set work status: no document %s", id.Hex())
	}
	return nil
}

// Remove deletes the work document.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete pending work", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete pending work: no document %s", id.Hex())
	}
	return nil
}
