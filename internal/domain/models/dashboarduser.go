// internal/domain/models/dashboarduser.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardUser is a login account for the operations dashboard. There are
// no roles: any signed-in user can use every page.
type DashboardUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LoginID      string             `bson:"login_id" json:"login_id"` // lowercase
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name" json:"name"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
