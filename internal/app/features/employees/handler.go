// internal/app/features/employees/handler.go

// Package employees manages worker records. Registration accepts multipart
// uploads for the profile and Aadhar photos; deletion fans out through the
// cascade orchestrator so attendance records and stored images go with the
// employee.
package employees

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/cascade"
	"github.com/udyoghq/udyog/internal/app/system/htmlsanitize"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Upload folders in the image store.
const (
	photoFolder  = "employee_photos"
	aadharFolder = "aadhar_photos"
)

// maxUploadBytes bounds one registration request (two photos plus fields).
const maxUploadBytes = 20 << 20

// EmployeeStore is the slice of the employees store the handlers use.
type EmployeeStore interface {
	Add(ctx context.Context, e models.Employee) (models.Employee, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
}

// Cascader previews and runs the employee delete fan-out.
type Cascader interface {
	RelatedDataCounts(ctx context.Context, employeeID primitive.ObjectID) (cascade.Counts, error)
	DeleteEmployeeData(ctx context.Context, employeeID primitive.ObjectID) (cascade.Counts, error)
}

// Uploader stores an image and returns its public URL. Satisfied by
// images.Store.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error)
}

type Handler struct {
	Employees EmployeeStore
	Cascade   Cascader
	Images    Uploader
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(employees EmployeeStore, casc Cascader, images Uploader, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Employees: employees,
		Cascade:   casc,
		Images:    images,
		ErrLog:    errLog,
		Log:       logger,
	}
}

// HandleRegister answers POST /employees as multipart/form-data with fields
// name, contact, address and optional file parts photo and aadhar_photo.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart form failed", err, "Invalid form data.")
		return
	}

	name := normalize.Name(r.FormValue("name"))
	contact := normalize.Contact(r.FormValue("contact"))

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required."
	}
	if contact == "" {
		fields["contact"] = "Contact number is required."
	}
	if len(fields) > 0 {
		h.ErrLog.Validation(w, opserr.NewValidation(fields))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	emp := models.Employee{
		Name:    name,
		Contact: contact,
		Address: htmlsanitize.Text(r.FormValue("address")),
	}

	photoURL, ok := h.uploadPart(ctx, w, r, "photo", photoFolder)
	if !ok {
		return
	}
	emp.PhotoURL = photoURL

	aadharURL, ok := h.uploadPart(ctx, w, r, "aadhar_photo", aadharFolder)
	if !ok {
		return
	}
	emp.AadharPhotoURL = aadharURL

	created, err := h.Employees.Add(ctx, emp)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "insert employee", err, "Could not register the employee.")
		return
	}

	h.Log.Info("employee registered",
		zap.String("employee_id", created.ID.Hex()),
		zap.Bool("has_photo", created.PhotoURL != ""),
		zap.Bool("has_aadhar", created.AadharPhotoURL != ""))
	uierrors.JSON(w, http.StatusCreated, created)
}

// uploadPart uploads one optional file part. Returns ("", true) when the
// part is absent, and (url, true) after a successful upload; on failure it
// writes the error response and returns ok=false.
func (h *Handler) uploadPart(ctx context.Context, w http.ResponseWriter, r *http.Request, part, folder string) (string, bool) {
	file, header, err := r.FormFile(part)
	if err == http.ErrMissingFile {
		return "", true
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read upload "+part, err, "Could not read the uploaded file.")
		return "", false
	}
	defer file.Close()

	url, err := h.Images.Upload(ctx, folder, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store upload "+part, err, "Could not store the uploaded image.")
		return "", false
	}
	return url, true
}

// HandleList answers GET /employees.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	employees, err := h.Employees.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employees", err, "Could not load employees.")
		return
	}
	uierrors.JSON(w, http.StatusOK, employees)
}

// HandleGet answers GET /employees/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	emp, err := h.Employees.GetByID(ctx, id)
	switch err {
	case nil:
		uierrors.JSON(w, http.StatusOK, emp)
	case mongo.ErrNoDocuments:
		h.ErrLog.NotFound(w, "Employee not found.")
	default:
		h.ErrLog.LogServerError(w, r, "get employee", err, "Could not load the employee.")
	}
}

type updateRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

// HandleUpdate answers PATCH /employees/{id} for the text fields. Photos are
// replaced through registration-style uploads, not here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode employee update failed", err, "Invalid request body.")
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

	if len(fields) == 0 {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Nothing to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Employees.Update(ctx, id, fields); err != nil {
		h.ErrLog.LogServerError(w, r, "update employee", err, "Could not update the employee.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"message": "Employee updated."})
}

// HandleRelatedCounts answers GET /employees/{id}/related: how many
// attendance records and images a delete would remove. The confirmation
// dialog shows these numbers before the user commits.
func (h *Handler) HandleRelatedCounts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts, err := h.Cascade.RelatedDataCounts(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count related data", err, "Could not load related data counts.")
		return
	}
	uierrors.JSON(w, http.StatusOK, counts)
}

// HandleDelete answers DELETE /employees/{id}: attendance records and
// images first, the employee record last.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	counts, err := h.Cascade.DeleteEmployeeData(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete employee", err, "Could not delete the employee.")
		return
	}

	h.Log.Info("employee deleted",
		zap.String("employee_id", id.Hex()),
		zap.Int("attendance_deleted", counts.Attendance),
		zap.Int("images_deleted", counts.Images))
	uierrors.JSON(w, http.StatusOK, counts)
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Message(w, http.StatusBadRequest, "Invalid employee id.")
		return primitive.NilObjectID, false
	}
	return id, true
}
