// internal/app/features/works/handler.go

// Package works manages the pending-work board: listing by status, editing,
// status transitions, and deletion. Deleting a membership work cascades to
// the paired membership member through the cascade orchestrator.
package works

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/htmlsanitize"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WorkStore is the slice of the pending-works store the handlers use.
type WorkStore interface {
	List(ctx context.Context, status string) ([]models.PendingWork, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PendingWork, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string, now time.Time) error
}

// Cascader removes a work together with its dependent records.
type Cascader interface {
	DeletePendingWork(ctx context.Context, work models.PendingWork) (int64, error)
}

type Handler struct {
	Works   WorkStore
	Cascade Cascader
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(works WorkStore, cascade Cascader, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Works:   works,
		Cascade: cascade,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// HandleList answers GET /works?status=pending|in-progress|completed.
// Without a status filter it returns every work, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidWorkStatus(status) {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Unknown status filter.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	works, err := h.Works.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending works", err, "Could not load works.")
		return
	}
	uierrors.JSON(w, http.StatusOK, works)
}

// HandleGet answers GET /works/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	work, err := h.Works.GetByID(ctx, id)
	switch err {
	case nil:
		uierrors.JSON(w, http.StatusOK, work)
	case mongo.ErrNoDocuments:
		h.ErrLog.NotFound(w, "Work not found.")
	default:
		h.ErrLog.LogServerError(w, r, "get pending work", err, "Could not load the work.")
	}
}

type updateRequest struct {
	CustomerName  *string  `json:"customer_name"`
	Contact       *string  `json:"contact"`
	Address       *string  `json:"address"`
	WorkType      *string  `json:"work_type"`
	Description   *string  `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
	Date          *string  `json:"date"`
	AssignedTo    *string  `json:"assigned_to"`
	SecondWorker  *string  `json:"second_worker"`
}

// HandleUpdate answers PATCH /works/{id}. Only fields present in the body
// are written; others keep their stored values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode work update failed", err, "Invalid request body.")
		return
	}

	fields := bson.M{}
	if req.CustomerName != nil {
		name := normalize.Name(*req.CustomerName)
		if name == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Customer name cannot be empty.")
			return
		}
		fields["customer_name"] = name
	}
	if req.Contact != nil {
		contact := normalize.Contact(*req.Contact)
		if contact == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Contact cannot be empty.")
			return
		}
		fields["contact"] = contact
	}
	if req.Address != nil {
		fields["address"] = htmlsanitize.Text(*req.Address)
	}
	if req.WorkType != nil {
		fields["work_type"] = htmlsanitize.Text(*req.WorkType)
	}
	if req.Description != nil {
		fields["description"] = htmlsanitize.Text(*req.Description)
	}
	if req.EstimatedCost != nil {
		if *req.EstimatedCost < 0 {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Estimated cost cannot be negative.")
			return
		}
		fields["estimated_cost"] = *req.EstimatedCost
	}
	if req.Date != nil {
		date := normalize.Date(*req.Date)
		if *req.Date != "" && date == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Date must be in YYYY-MM-DD form.")
			return
		}
		fields["date"] = date
	}
	if req.AssignedTo != nil {
		oid, ok := h.workerID(w, *req.AssignedTo, "assigned_to")
		if !ok {
			return
		}
		fields["assigned_to"] = oid
	}
	if req.SecondWorker != nil {
		oid, ok := h.workerID(w, *req.SecondWorker, "second_worker")
		if !ok {
			return
		}
		fields["second_worker"] = oid
	}

	if len(fields) == 0 {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Works.Update(ctx, id, fields); err != nil {
		h.ErrLog.LogServerError(w, r, "update pending work", err, "Could not update the work.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Work updated."})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus answers POST /works/{id}/status. Moving to in-progress
// stamps the start time, moving to completed stamps the completion time.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status change failed", err, "Invalid request body.")
		return
	}
	if !models.ValidWorkStatus(req.Status) {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Unknown status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Works.SetStatus(ctx, id, req.Status, time.Now()); err != nil {
		h.ErrLog.LogServerError(w, r, "set work status", err, "Could not change the status.")
		return
	}

	h.Log.Info("work status changed",
		zap.String("work_id", id.Hex()), zap.String("status", req.Status))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// HandleDelete answers DELETE /works/{id}. Membership works cascade to the
// matching membership member; individual works delete only themselves.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	work, err := h.Works.GetByID(ctx, id)
	switch err {
	case nil:
		// continue
	case mongo.ErrNoDocuments:
		h.ErrLog.NotFound(w, "Work not found.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "get pending work", err, "Could not load the work.")
		return
	}

	membersDeleted, err := h.Cascade.DeletePendingWork(ctx, *work)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete pending work", err, "Could not delete the work.")
		return
	}

	h.Log.Info("work deleted",
		zap.String("work_id", id.Hex()),
		zap.String("type", work.Type),
		zap.Int64("members_deleted", membersDeleted))
	uierrors.JSON(w, http.StatusOK, map[string]int64{"members_deleted": membersDeleted})
}

// workID parses {id} from the URL, answering 400 on garbage.
func (h *Handler) workID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid work id.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// workerID parses an employee ObjectID from an update value. An empty string
// clears the assignment.
func (h *Handler) workerID(w http.ResponseWriter, hex, field string) (interface{}, bool) {
	if hex == "" {
		return nil, true
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Invalid "+field+" id.")
		return nil, false
	}
	return oid, true
}
