// internal/app/store/dashusers/store.go
package dashusers

import (
	"context"
	"errors"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the backing collection name.
const Collection = "dashboardUsers"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// ErrDuplicateLoginID is returned when creating a user whose login id exists.
var ErrDuplicateLoginID = errors.New("a user with this login id already exists")

// GetByLoginID looks up a user by case-insensitive login id.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.DashboardUser, error) {
	var u models.DashboardUser
	if err := s.c.FindOne(ctx, bson.M{"login_id": normalize.LoginID(loginID)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new dashboard user.
func (s *Store) Create(ctx context.Context, u models.DashboardUser) (models.DashboardUser, error) {
	u.ID = primitive.NewObjectID()
	u.LoginID = normalize.LoginID(u.LoginID)
	u.Name = normalize.Name(u.Name)

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.DashboardUser{}, ErrDuplicateLoginID
		}
		return models.DashboardUser{}, opserr.Write("insert dashboard user", err)
	}
	return u, nil
}
