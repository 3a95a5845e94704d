// internal/app/system/cascade/cascade.go

// Package cascade coordinates multi-collection deletions: removing an
// employee fans out to attendance records and stored images, and removing a
// membership work takes the paired membership member with it.
//
// Sub-deletions are best effort. A failed attendance, image, or member
// delete is logged and counted against the total, but never aborts the
// remaining steps; the primary record is still removed last.
package cascade

import (
	"context"
	"sync"

	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EmployeeSource reads the employee being deleted.
type EmployeeSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// AttendanceSource exposes the attendance operations the cascade needs.
type AttendanceSource interface {
	IDsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]primitive.ObjectID, error)
	RemoveByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	CountByEmployee(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
}

// MemberSource deletes membership members matched by identity, not id.
type MemberSource interface {
	DeleteByNameContact(ctx context.Context, name, contact string) (int64, error)
}

// WorkSource removes the pending-work record itself.
type WorkSource interface {
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// ImageDeleter removes a stored image by its public URL.
type ImageDeleter interface {
	Delete(ctx context.Context, url string) error
}

// Counts summarizes what a cascade touched (or would touch).
type Counts struct {
	Attendance int `json:"attendance"`
	Images     int `json:"images"`
}

// Orchestrator runs the cascades. All dependencies are interfaces so the
// fan-out logic is testable without a database.
type Orchestrator struct {
	employees  EmployeeSource
	attendance AttendanceSource
	members    MemberSource
	works      WorkSource
	images     ImageDeleter
	log        *zap.Logger
}

func New(employees EmployeeSource, attendance AttendanceSource, members MemberSource, works WorkSource, images ImageDeleter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		employees:  employees,
		attendance: attendance,
		members:    members,
		works:      works,
		images:     images,
		log:        logger,
	}
}

// RelatedDataCounts reports how many attendance records and images deleting
// the employee would remove. Used for the confirmation preview; it writes
// nothing.
func (o *Orchestrator) RelatedDataCounts(ctx context.Context, employeeID primitive.ObjectID) (Counts, error) {
	emp, err := o.employees.GetByID(ctx, employeeID)
	if err != nil {
		return Counts{}, err
	}

	n, err := o.attendance.CountByEmployee(ctx, employeeID)
	if err != nil {
		return Counts{}, err
	}

	return Counts{
		Attendance: int(n),
		Images:     len(emp.ImageURLs()),
	}, nil
}

// DeleteEmployeeData removes the employee's attendance records and images,
// then the employee itself. The returned Counts hold the number of
// sub-deletions that actually succeeded.
func (o *Orchestrator) DeleteEmployeeData(ctx context.Context, employeeID primitive.ObjectID) (Counts, error) {
	emp, err := o.employees.GetByID(ctx, employeeID)
	if err != nil {
		return Counts{}, err
	}

	ids, err := o.attendance.IDsByEmployee(ctx, employeeID)
	if err != nil {
		return Counts{}, err
	}

	var (
		mu     sync.Mutex
		counts Counts
		wg     sync.WaitGroup
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			removed, err := o.attendance.RemoveByID(ctx, id)
			if err != nil {
				o.log.Warn("attendance delete failed during employee cascade",
					zap.String("employee_id", employeeID.Hex()),
					zap.String("attendance_id", id.Hex()),
					zap.Error(err))
				return
			}
			if removed {
				mu.Lock()
				counts.Attendance++
				mu.Unlock()
			}
		}(id)
	}

	for _, url := range emp.ImageURLs() {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := o.images.Delete(ctx, url); err != nil {
				o.log.Warn("image delete failed during employee cascade",
					zap.String("employee_id", employeeID.Hex()),
					zap.String("url", url),
					zap.Error(err))
				return
			}
			mu.Lock()
			counts.Images++
			mu.Unlock()
		}(url)
	}

	wg.Wait()

	if err := o.employees.Remove(ctx, employeeID); err != nil {
		return counts, err
	}

	o.log.Info("employee cascade complete",
		zap.String("employee_id", employeeID.Hex()),
		zap.Int("attendance_deleted", counts.Attendance),
		zap.Int("images_deleted", counts.Images))
	return counts, nil
}

// DeletePendingWork removes the work and, for membership works, the paired
// membership member matched by normalized name and contact. Returns the
// number of member records deleted (zero for individual works).
//
// The member delete is best effort like the employee sub-deletions: a
// failure is logged and the work is still removed.
func (o *Orchestrator) DeletePendingWork(ctx context.Context, work models.PendingWork) (int64, error) {
	var membersDeleted int64

	if work.IsMembership() {
		n, err := o.members.DeleteByNameContact(ctx, work.CustomerName, work.Contact)
		switch {
		case err != nil:
			o.log.Warn("member delete failed during work cascade",
				zap.String("work_id", work.ID.Hex()),
				zap.String("customer", work.CustomerName),
				zap.Error(err))
		case n == 0:
			o.log.Warn("membership work had no matching member",
				zap.String("work_id", work.ID.Hex()),
				zap.String("customer", work.CustomerName))
		default:
			membersDeleted = n
		}
	}

	if err := o.works.Remove(ctx, work.ID); err != nil {
		return membersDeleted, err
	}
	return membersDeleted, nil
}
