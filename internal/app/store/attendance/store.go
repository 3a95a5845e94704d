// internal/app/store/attendance/store.go
package attendance

import (
	"context"
	"errors"
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
const Collection = "attendance"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var errBadStatus = errors.New(`status must be "present"|"absent"|"half-day"|"leave"`)

// Add inserts an attendance record. One record per (employee_id, date) is
// the convention; Add does not enforce it, MarkFor does.
func (s *Store) Add(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	if !models.ValidAttendanceStatus(rec.Status) {
		return models.AttendanceRecord{}, errBadStatus
	}

	rec.ID = primitive.NewObjectID()
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.AttendanceRecord{}, opserr.Write("insert attendance", err)
	}
	return rec, nil
}

// MarkFor upserts the record for (employeeID, date), so re-marking a day
// updates the existing record instead of creating a duplicate.
func (s *Store) MarkFor(ctx context.Context, rec models.AttendanceRecord) error {
	if !models.ValidAttendanceStatus(rec.Status) {
		return errBadStatus
	}

	now := time.Now()
	filter := bson.M{"employee_id": rec.EmployeeID, "date": rec.Date}
	update := bson.M{
		"$set": bson.M{
			"employee_name": rec.EmployeeName,
			"check_in":      rec.CheckIn,
			"check_out":     rec.CheckOut,
			"status":        rec.Status,
			"work_hours":    rec.WorkHours,
			"notes":         rec.Notes,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"employee_id": rec.EmployeeID,
			"date":        rec.Date,
			"created_at":  now,
		},
	}

	if _, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return opserr.Write("mark attendance", err)
	}
	return nil
}

// ListByDate returns all records for a calendar date.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"date": date},
		options.Find().SetSort(bson.D{{Key: "employee_name", Value: 1}}))
	if err != nil {
		return nil, opserr.Read("list attendance by date", err)
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode attendance", err)
	}
	return out, nil
}

// ListByEmployeeMonth returns the employee's records within a month.
// Dates are "2006-01-02" strings, so a lexicographic range covers the month.
func (s *Store) ListByEmployeeMonth(ctx context.Context, employeeID primitive.ObjectID, year int, month time.Month) ([]models.AttendanceRecord, error) {
	from := fmt.Sprintf("%04d-%02d-01", year, month)
	to := fmt.Sprintf("%04d-%02d-32", year, month) // exclusive upper bound past any real day

	cur, err := s.c.Find(ctx, bson.M{
		"employee_id": employeeID,
		"date":        bson.M{"$gte": from, "$lt": to},
	}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, opserr.Read("list attendance by month", err)
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode attendance", err)
	}
	return out, nil
}

// CountByEmployee counts records referencing the employee. Used for the
// delete-confirmation preview.
func (s *Store) CountByEmployee(ctx context.Context, employeeID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return 0, opserr.Read("count attendance", err)
	}
	return n, nil
}

// ListByEmployee returns every record for the employee, oldest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.AttendanceRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"employee_id": employeeID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, opserr.Read("list attendance by employee", err)
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode attendance", err)
	}
	return out, nil
}

// Update merges fields and stamps updated_at.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	if status, ok := fields["status"].(string); ok && !models.ValidAttendanceStatus(status) {
		return errBadStatus
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return opserr.Write("update attendance", err)
	}
	if res.MatchedCount == 0 {
		return opserr.Writef("update attendance: no document %s", id.Hex())
	}
	return nil
}

// Remove deletes one record.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete attendance", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete attendance: no document %s", id.Hex())
	}
	return nil
}

// RemoveByID deletes one record and reports whether a document was removed.
// The employee cascade uses this for its per-record fan-out so sibling
// failures stay independent.
func (s *Store) RemoveByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, opserr.Write("delete attendance", err)
	}
	return res.DeletedCount > 0, nil
}

// IDsByEmployee returns the ids of every record referencing the employee.
func (s *Store) IDsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"employee_id": employeeID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, opserr.Read("list attendance ids", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, opserr.Read("decode attendance ids", err)
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}
