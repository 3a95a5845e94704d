// internal/app/features/attendance/handler.go

// Package attendance marks and lists daily attendance. Marking is an upsert
// on (employee, date): re-marking a day corrects the existing record. Bulk
// mark stamps every current employee present for a date in one call.
package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/htmlsanitize"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AttendanceStore is the slice of the attendance store the handlers use.
type AttendanceStore interface {
	MarkFor(ctx context.Context, rec models.AttendanceRecord) error
	ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.AttendanceRecord, error)
	ListByEmployeeMonth(ctx context.Context, employeeID primitive.ObjectID, year int, month time.Month) ([]models.AttendanceRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// EmployeeLister provides the roster for bulk marking.
type EmployeeLister interface {
	List(ctx context.Context) ([]models.Employee, error)
}

type Handler struct {
	Attendance AttendanceStore
	Employees  EmployeeLister
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(att AttendanceStore, employees EmployeeLister, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Attendance: att,
		Employees:  employees,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type markRequest struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	WorkHours    float64 `json:"work_hours"`
	Notes        string  `json:"notes"`
}

// HandleMark answers POST /attendance: upsert one employee's record for a
// date.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode attendance mark failed", err, "Invalid request body.")
		return
	}

	fields := map[string]string{}
	empID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		fields["employee_id"] = "A valid employee id is required."
	}
	date := normalize.Date(req.Date)
	if date == "" {
		fields["date"] = "Date must be in YYYY-MM-DD form."
	}
	if !models.ValidAttendanceStatus(req.Status) {
		fields["status"] = "Status must be present, absent, half-day, or leave."
	}
	if len(fields) > 0 {
		h.ErrLog.Validation(w, opserr.NewValidation(fields))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec := models.AttendanceRecord{
		EmployeeID:   empID,
		EmployeeName: normalize.Name(req.EmployeeName),
		Date:         date,
		Status:       req.Status,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		WorkHours:    req.WorkHours,
		Notes:        htmlsanitize.Text(req.Notes),
	}
	if err := h.Attendance.MarkFor(ctx, rec); err != nil {
		h.ErrLog.LogServerError(w, r, "mark attendance", err, "Could not save attendance.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Attendance marked."})
}

type bulkRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"` // defaults to present
}

type bulkResponse struct {
	Marked int `json:"marked"`
	Failed int `json:"failed"`
}

// HandleBulkMark answers POST /attendance/bulk: mark every employee for a
// date in one go. Individual failures are counted, not fatal.
func (h *Handler) HandleBulkMark(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode bulk mark failed", err, "Invalid request body.")
		return
	}

	date := normalize.Date(req.Date)
	if date == "" {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Date must be in YYYY-MM-DD form.")
		return
	}
	status := req.Status
	if status == "" {
		status = models.AttendancePresent
	}
	if !models.ValidAttendanceStatus(status) {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Unknown attendance status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	roster, err := h.Employees.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employees for bulk mark", err, "Could not load the employee roster.")
		return
	}

	var resp bulkResponse
	for _, emp := range roster {
		rec := models.AttendanceRecord{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Date:         date,
			Status:       status,
		}
		if err := h.Attendance.MarkFor(ctx, rec); err != nil {
			h.Log.Warn("bulk mark failed for employee",
				zap.String("employee_id", emp.ID.Hex()),
				zap.String("date", date),
				zap.Error(err))
			resp.Failed++
			continue
		}
		resp.Marked++
	}

	h.Log.Info("bulk attendance marked",
		zap.String("date", date),
		zap.String("status", status),
		zap.Int("marked", resp.Marked),
		zap.Int("failed", resp.Failed))
	uierrors.JSON(w, http.StatusOK, resp)
}

// HandleListByDate answers GET /attendance?date=YYYY-MM-DD.
func (h *Handler) HandleListByDate(w http.ResponseWriter, r *http.Request) {
	date := normalize.Date(r.URL.Query().Get("date"))
	if date == "" {
		uierrors.Message(w, http.StatusUnprocessableEntity, "A date query in YYYY-MM-DD form is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	records, err := h.Attendance.ListByDate(ctx, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list attendance by date", err, "Could not load attendance.")
		return
	}
	uierrors.JSON(w, http.StatusOK, records)
}

// HandleListByEmployee answers GET /attendance/employee/{id}, optionally
// scoped to one month with ?year=&month=.
func (h *Handler) HandleListByEmployee(w http.ResponseWriter, r *http.Request) {
	empID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid employee id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")

	var records []models.AttendanceRecord
	if yearStr != "" || monthStr != "" {
		year, errY := strconv.Atoi(yearStr)
		month, errM := strconv.Atoi(monthStr)
		if errY != nil || errM != nil || month < 1 || month > 12 {
			uierrors.Message(w, http.StatusUnprocessableEntity, "year and month must be numeric, month 1-12.")
			return
		}
		records, err = h.Attendance.ListByEmployeeMonth(ctx, empID, year, time.Month(month))
	} else {
		records, err = h.Attendance.ListByEmployee(ctx, empID)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list attendance by employee", err, "Could not load attendance.")
		return
	}
	uierrors.JSON(w, http.StatusOK, records)
}

type updateRequest struct {
	Status    *string  `json:"status"`
	CheckIn   *string  `json:"check_in"`
	CheckOut  *string  `json:"check_out"`
	WorkHours *float64 `json:"work_hours"`
	Notes     *string  `json:"notes"`
}

// HandleUpdate answers PATCH /attendance/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid attendance id.")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode attendance update failed", err, "Invalid request body.")
		return
	}

	fields := bson.M{}
	if req.Status != nil {
		if !models.ValidAttendanceStatus(*req.Status) {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Unknown attendance status.")
			return
		}
		fields["status"] = *req.Status
	}
	if req.CheckIn != nil {
		fields["check_in"] = *req.CheckIn
	}
	if req.CheckOut != nil {
		fields["check_out"] = *req.CheckOut
	}
	if req.WorkHours != nil {
		fields["work_hours"] = *req.WorkHours
	}
	if req.Notes != nil {
		fields["notes"] = htmlsanitize.Text(*req.Notes)
	}

	if len(fields) == 0 {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Attendance.Update(ctx, id, fields); err != nil {
		h.ErrLog.LogServerError(w, r, "update attendance", err, "Could not update the record.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Attendance updated."})
}

// HandleDelete answers DELETE /attendance/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid attendance id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Attendance.Remove(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete attendance", err, "Could not delete the record.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Attendance deleted."})
}
