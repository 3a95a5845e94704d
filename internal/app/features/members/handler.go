// internal/app/features/members/handler.go

// Package members manages membership member records. Deleting a member never
// touches pending works; the cascade runs only in the other direction, from
// membership works to members.
package members

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/htmlsanitize"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/reports"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MemberStore is the slice of the members store the handlers use.
type MemberStore interface {
	List(ctx context.Context) ([]models.MembershipMember, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.MembershipMember, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Remove(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	Members MemberStore
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	// Now is replaceable in tests for deterministic renewal math.
	Now func() time.Time
}

func NewHandler(members MemberStore, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Members: members, ErrLog: errLog, Log: logger, Now: time.Now}
}

// memberView is a member plus the renewal fields the list page shows.
type memberView struct {
	models.MembershipMember
	NextDueDate   string `json:"next_due_date,omitempty"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
	DueToday      bool   `json:"due_today"`
}

// HandleList answers GET /members with renewal info computed per member.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err, "Could not load members.")
		return
	}

	now := h.Now()
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		v := memberView{MembershipMember: m}
		if m.JoinDate != "" && m.MembershipDuration != "" {
			due, err := reports.NextDueDate(m.JoinDate, m.MembershipDuration)
			if err == nil {
				v.NextDueDate = due
				if days, err := reports.DaysRemaining(due, now); err == nil {
					v.DaysRemaining = &days
				}
				v.DueToday = reports.DueToday(due, now)
			}
		}
		views = append(views, v)
	}
	uierrors.JSON(w, http.StatusOK, views)
}

// HandleGet answers GET /members/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	switch err {
	case nil:
		uierrors.JSON(w, http.StatusOK, m)
	case mongo.ErrNoDocuments:
		h.ErrLog.NotFound(w, "Member not found.")
	default:
		h.ErrLog.LogServerError(w, r, "get member", err, "Could not load the member.")
	}
}

type updateRequest struct {
	Name               *string `json:"name"`
	Contact            *string `json:"contact"`
	Address            *string `json:"address"`
	Status             *string `json:"status"`
	MembershipType     *string `json:"membership_type"`
	Rate               *string `json:"rate"`
	MembershipDuration *string `json:"membership_duration"`
	JoinDate           *string `json:"join_date"`
}

// HandleUpdate answers PATCH /members/{id}. The store refreshes the match
// keys when name or contact change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode member update failed", err, "Invalid request body.")
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		name := normalize.Name(*req.Name)
		if name == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Name cannot be empty.")
			return
		}
		fields["name"] = name
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
	if req.Status != nil {
		fields["status"] = htmlsanitize.Text(*req.Status)
	}
	if req.MembershipType != nil {
		fields["membership_type"] = htmlsanitize.Text(*req.MembershipType)
	}
	if req.Rate != nil {
		fields["rate"] = htmlsanitize.Text(*req.Rate)
	}
	if req.MembershipDuration != nil {
		fields["membership_duration"] = *req.MembershipDuration
	}
	if req.JoinDate != nil {
		date := normalize.Date(*req.JoinDate)
		if date == "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Join date must be in YYYY-MM-DD form.")
			return
		}
		fields["join_date"] = date
	}

	if len(fields) == 0 {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Update(ctx, id, fields); err != nil {
		h.ErrLog.LogServerError(w, r, "update member", err, "Could not update the member.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Member updated."})
}

// HandleDelete answers DELETE /members/{id}. Works referencing this
// customer are left alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Remove(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete member", err, "Could not delete the member.")
		return
	}

	h.Log.Info("member deleted", zap.String("member_id", id.Hex()))
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Member deleted."})
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid member id.")
		return primitive.NilObjectID, false
	}
	return id, true
}
