// internal/app/features/expenses/handler.go

// Package expenses is the other-expenses ledger. Entries are independent of
// works and employees; the daily profit report subtracts them from revenue.
package expenses

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

// ExpenseStore is the slice of the expenses store the handlers use.
type ExpenseStore interface {
	Add(ctx context.Context, e models.OtherExpense) (models.OtherExpense, error)
	List(ctx context.Context) ([]models.OtherExpense, error)
	ListByDate(ctx context.Context, date string) ([]models.OtherExpense, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	Expenses ExpenseStore
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(expenses ExpenseStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Expenses: expenses, ErrLog: errLog, Log: logger}
}

type addRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// HandleAdd answers POST /expenses.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode expense failed", err, "Invalid request body.")
		return
	}

	fields := map[string]string{}
	if req.Amount <= 0 {
		fields["amount"] = "Amount must be greater than zero."
	}
	description := htmlsanitize.Text(req.Description)
	if description == "" {
		fields["description"] = "Description is required."
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

	created, err := h.Expenses.Add(ctx, models.OtherExpense{
		Amount:      req.Amount,
		Description: description,
		Date:        date,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "insert expense", err, "Could not save the expense.")
		return
	}
	uierrors.JSON(w, http.StatusCreated, created)
}

// HandleList answers GET /expenses, optionally filtered with ?date=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if raw := r.URL.Query().Get("date"); raw != "" {
		date := normalize.Date(raw)
		if date == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Date must be in YYYY-MM-DD form.")
			return
		}
		expenses, err := h.Expenses.ListByDate(ctx, date)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list expenses by date", err, "Could not load expenses.")
			return
		}
		uierrors.JSON(w, http.StatusOK, expenses)
		return
	}

	expenses, err := h.Expenses.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list expenses", err, "Could not load expenses.")
		return
	}
	uierrors.JSON(w, http.StatusOK, expenses)
}

// HandleDelete answers DELETE /expenses/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid expense id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Expenses.Remove(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete expense", err, "Could not delete the expense.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted."})
}
