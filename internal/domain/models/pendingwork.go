// internal/domain/models/pendingwork.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Work status values for PendingWork.Status.
const (
	WorkStatusPending    = "pending"
	WorkStatusInProgress = "in-progress"
	WorkStatusCompleted  = "completed"
)

// Work type values for PendingWork.Type.
const (
	WorkTypeMembership = "membership"
	WorkTypeIndividual = "individual"
)

// ValidWorkStatus reports whether s is a recognized work status.
func ValidWorkStatus(s string) bool {
	switch s {
	case WorkStatusPending, WorkStatusInProgress, WorkStatusCompleted:
		return true
	}
	return false
}

// PendingWork is a job created from an inquiry. It moves through
// pending -> in-progress -> completed and may be assigned to up to two
// employees.
//
// Date is a calendar date string ("2006-01-02") entered by the operator;
// CreatedAt is the fallback when Date is blank.
type PendingWork struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerName  string              `bson:"customer_name" json:"customer_name"`
	Contact       string              `bson:"contact" json:"contact"`
	Address       string              `bson:"address,omitempty" json:"address,omitempty"`
	WorkType      string              `bson:"work_type,omitempty" json:"work_type,omitempty"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	EstimatedCost float64             `bson:"estimated_cost" json:"estimated_cost"`
	Status        string              `bson:"status" json:"status"` // pending | in-progress | completed
	AssignedTo    *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	SecondWorker  *primitive.ObjectID `bson:"second_worker,omitempty" json:"second_worker,omitempty"`
	Date          string              `bson:"date,omitempty" json:"date,omitempty"` // "2006-01-02"
	Type          string              `bson:"type" json:"type"`                     // membership | individual

	// Stamped by status transitions.
	StartTime     *time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	CompletedTime *time.Time `bson:"completed_time,omitempty" json:"completed_time,omitempty"`

	// Only meaningful when Type == "membership", e.g. "30days" or "3month".
	MembershipDuration string `bson:"membership_duration,omitempty" json:"membership_duration,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsMembership reports whether deleting this work should cascade to the
// matching membership member.
func (w PendingWork) IsMembership() bool {
	return w.Type == WorkTypeMembership
}
