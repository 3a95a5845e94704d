// internal/app/store/members/store.go
package members

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
const Collection = "membershipMembers"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Add inserts a membership member. Name and contact are normalized into the
// *_ci fields used by the pending-work delete cascade.
func (s *Store) Add(ctx context.Context, m models.MembershipMember) (models.MembershipMember, error) {
	m.ID = primitive.NewObjectID()
	m.Name = normalize.Name(m.Name)
	m.NameCI = normalize.Key(m.Name)
	m.Contact = normalize.Contact(m.Contact)
	m.ContactCI = m.Contact
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.MembershipMember{}, opserr.Write("insert member", err)
	}
	return m, nil
}

// GetByID loads a member by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MembershipMember, error) {
	var m models.MembershipMember
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, opserr.Read("load member", err)
	}
	return &m, nil
}

// List returns all members, most recently joined first.
func (s *Store) List(ctx context.Context) ([]models.MembershipMember, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, opserr.Read("list members", err)
	}
	defer cur.Close(ctx)

	var out []models.MembershipMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, opserr.Read("decode members", err)
	}
	return out, nil
}

// Update merges fields and stamps updated_at. Display name/contact edits
// also refresh the normalized match fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	if name, ok := fields["name"].(string); ok {
		set["name"] = normalize.Name(name)
		set["name_ci"] = normalize.Key(name)
	}
	if contact, ok := fields["contact"].(string); ok {
		c := normalize.Contact(contact)
		set["contact"] = c
		set["contact_ci"] = c
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return opserr.Write("update member", err)
	}
	if res.MatchedCount == 0 {
		return opserr.Writef("update member: no document %s", id.Hex())
	}
	return nil
}

// Remove deletes one member. Never touches pendingWorks: deleting a member
// directly leaves the originating work alone.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return opserr.Write("delete member", err)
	}
	if res.DeletedCount == 0 {
		return opserr.Writef("delete member: no document %s", id.Hex())
	}
	return nil
}

// DeleteByNameContact removes every member whose normalized (name, contact)
// matches. Used by the membership-work delete cascade; normally at most one
// document matches, but duplicates are tolerated. Zero matches is not an
// error.
func (s *Store) DeleteByNameContact(ctx context.Context, name, contact string) (int64, error) {
	filter := bson.M{
		"name_ci":    normalize.Key(name),
		"contact_ci": normalize.Contact(contact),
	}
	res, err := s.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, opserr.Write("delete members by name+contact", err)
	}
	return res.DeletedCount, nil
}
