// internal/app/features/inquiry/handler.go

// Package inquiry is the intake endpoint. A submitted inquiry always creates
// a PendingWork; a membership inquiry additionally creates the paired
// MembershipMember carrying the same name and contact, with the rate derived
// from the estimated cost. There is no stored foreign key between the two;
// the delete cascade re-matches them by normalized name and contact.
package inquiry

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
	"go.uber.org/zap"
)

// WorkSink persists new pending works.
type WorkSink interface {
	Add(ctx context.Context, w models.PendingWork) (models.PendingWork, error)
}

// MemberSink persists new membership members.
type MemberSink interface {
	Add(ctx context.Context, m models.MembershipMember) (models.MembershipMember, error)
}

type Handler struct {
	Works   WorkSink
	Members MemberSink
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(works WorkSink, members MemberSink, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Works:   works,
		Members: members,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type intakeRequest struct {
	CustomerName       string  `json:"customer_name"`
	Contact            string  `json:"contact"`
	Address            string  `json:"address"`
	WorkType           string  `json:"work_type"`
	Description        string  `json:"description"`
	EstimatedCost      float64 `json:"estimated_cost"`
	Date               string  `json:"date"`
	Type               string  `json:"type"` // membership | individual
	MembershipDuration string  `json:"membership_duration"`
}

type intakeResponse struct {
	Work   models.PendingWork       `json:"work"`
	Member *models.MembershipMember `json:"member,omitempty"`
}

func (req *intakeRequest) validate() *opserr.ValidationError {
	fields := map[string]string{}
	if normalize.Name(req.CustomerName) == "" {
		fields["customer_name"] = "Customer name is required."
	}
	if normalize.Contact(req.Contact) == "" {
		fields["contact"] = "Contact number is required."
	}
	if req.EstimatedCost < 0 {
		fields["estimated_cost"] = "Estimated cost cannot be negative."
	}
	if req.Type != "" && req.Type != models.WorkTypeMembership && req.Type != models.WorkTypeIndividual {
		fields["type"] = "Type must be membership or individual."
	}
	if req.Type == models.WorkTypeMembership && req.MembershipDuration == "" {
		fields["membership_duration"] = "Membership duration is required for memberships."
	}
	if req.Date != "" && normalize.Date(req.Date) == "" {
		fields["date"] = "Date must be in YYYY-MM-DD form."
	}
	if len(fields) > 0 {
		return opserr.NewValidation(fields)
	}
	return nil
}

// HandleIntake answers POST /inquiry.
func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode inquiry failed", err, "Invalid request body.")
		return
	}

	if ve := req.validate(); ve != nil {
		h.ErrLog.Validation(w, ve)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	work := models.PendingWork{
		CustomerName:       req.CustomerName,
		Contact:            req.Contact,
		Address:            htmlsanitize.Text(req.Address),
		WorkType:           htmlsanitize.Text(req.WorkType),
		Description:        htmlsanitize.Text(req.Description),
		EstimatedCost:      req.EstimatedCost,
		Status:             models.WorkStatusPending,
		Date:               normalize.Date(req.Date),
		Type:               req.Type,
		MembershipDuration: req.MembershipDuration,
	}

	created, err := h.Works.Add(ctx, work)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "insert pending work", err, "Could not save the inquiry.")
		return
	}

	resp := intakeResponse{Work: created}

	if created.IsMembership() {
		joinDate := created.Date
		if joinDate == "" {
			joinDate = time.Now().Format(normalize.DateLayout)
		}
		member := models.MembershipMember{
			Name:               req.CustomerName,
			Contact:            req.Contact,
			Address:            htmlsanitize.Text(req.Address),
			Status:             models.MemberStatusActive,
			JoinDate:           joinDate,
			MembershipType:     htmlsanitize.Text(req.WorkType),
			Rate:               "₹" + strconv.FormatFloat(req.EstimatedCost, 'f', -1, 64),
			MembershipDuration: req.MembershipDuration,
		}
		m, err := h.Members.Add(ctx, member)
		if err != nil {
			// The work record exists; report the partial result honestly.
			h.Log.Error("membership member create failed after work insert",
				zap.String("work_id", created.ID.Hex()), zap.Error(err))
			h.ErrLog.LogServerError(w, r, "insert membership member", err,
				"The inquiry was saved but the membership record could not be created.")
			return
		}
		resp.Member = &m
		h.Log.Info("membership intake created paired records",
			zap.String("work_id", created.ID.Hex()),
			zap.String("member_id", m.ID.Hex()))
	}

	uierrors.JSON(w, http.StatusCreated, resp)
}
