// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance status values.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half-day"
	AttendanceLeave   = "leave"
)

// ValidAttendanceStatus reports whether s is a recognized attendance status.
func ValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
		return true
	}
	return false
}

// AttendanceRecord marks one employee's attendance for one calendar date.
//
// One record per (employee_id, date) is the convention bulk-mark relies on;
// the collection does not enforce it.
type AttendanceRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID   primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName string             `bson:"employee_name" json:"employee_name"` // denormalized for list views
	Date         string             `bson:"date" json:"date"`                   // "2006-01-02"
	CheckIn      string             `bson:"check_in,omitempty" json:"check_in,omitempty"`
	CheckOut     string             `bson:"check_out,omitempty" json:"check_out,omitempty"`
	Status       string             `bson:"status" json:"status"` // present | absent | half-day | leave
	WorkHours    float64            `bson:"work_hours,omitempty" json:"work_hours,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
