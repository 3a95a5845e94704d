// internal/app/features/upads/handler.go

// Package upads records advances paid to employees ahead of salary. The
// monthly salary report subtracts same-month advances from the computed
// salary.
package upads

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/htmlsanitize"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UpadStore is the slice of the upads store the handlers use.
type UpadStore interface {
	Add(ctx context.Context, u models.UpadRecord) (models.UpadRecord, error)
	ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.UpadRecord, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	Upads  UpadStore
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(upads UpadStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Upads: upads, ErrLog: errLog, Log: logger}
}

type addRequest struct {
	EmployeeID string  `json:"employee_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Note       string  `json:"note"`
}

// HandleAdd answers POST /upads.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode upad failed", err, "Invalid request body.")
		return
	}

	fields := map[string]string{}
	empID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		fields["employee_id"] = "A valid employee id is required."
	}
	if req.Amount <= 0 {
		fields["amount"] = "Amount must be greater than zero."
	}
	date := normalize.Date(req.Date)
	if date == "" {
		fields["date"] = "Date must be in YYYY-MM-DD form."
	}
	if len(fields) > 0 {
		h.ErrLog.Validation(w, opserr.NewValidation(fields))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Upads.Add(ctx, models.UpadRecord{
		EmployeeID: empID,
		Amount:     req.Amount,
		Date:       date,
		Note:       htmlsanitize.Text(req.Note),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "insert upad", err, "Could not save the advance.")
		return
	}
	uierrors.JSON(w, http.StatusCreated, created)
}

// HandleListByEmployee answers GET /upads/employee/{id}.
func (h *Handler) HandleListByEmployee(w http.ResponseWriter, r *http.Request) {
	empID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid employee id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upads, err := h.Upads.ListByEmployee(ctx, empID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list upads", err, "Could not load advances.")
		return
	}
	uierrors.JSON(w, http.StatusOK, upads)
}

// HandleDelete answers DELETE /upads/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid upad id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Upads.Remove(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete upad", err, "Could not delete the advance.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Advance deleted."})
}
