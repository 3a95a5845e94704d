// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberStatusActive is the conventional status for a live membership.
// Status is free text; this is the value intake writes.
const MemberStatusActive = "Active"

// MembershipMember is a customer on a membership plan. It is created
// alongside a membership PendingWork, but there is no persisted foreign
// key between the two: the cascade on work deletion matches by
// normalized (name, contact) at delete time.
//
// NameCI and ContactCI hold the normalized forms used for that match.
type MembershipMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Contact   string             `bson:"contact" json:"contact"`
	ContactCI string             `bson:"contact_ci" json:"-"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Status    string             `bson:"status" json:"status"`
	JoinDate  string             `bson:"join_date" json:"join_date"` // "2006-01-02"

	MembershipType     string `bson:"membership_type,omitempty" json:"membership_type,omitempty"`
	Rate               string `bson:"rate,omitempty" json:"rate,omitempty"` // currency-formatted, e.g. "₹50,000"
	MembershipDuration string `bson:"membership_duration,omitempty" json:"membership_duration,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
