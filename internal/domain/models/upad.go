// internal/domain/models/upad.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpadRecord is an advance paid to an employee ahead of salary. Advances
// dated within a month are deducted from that month's computed salary.
type UpadRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	Amount     float64            `bson:"amount" json:"amount"`
	Date       string             `bson:"date" json:"date"` // "2006-01-02"
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
