package works_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/features/works"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeWorkStore struct {
	byID        map[primitive.ObjectID]models.PendingWork
	lastUpdate  bson.M
	lastStatus  string
	statusTimes []time.Time
}

func newFakeWorkStore() *fakeWorkStore {
	return &fakeWorkStore{byID: map[primitive.ObjectID]models.PendingWork{}}
}

func (f *fakeWorkStore) List(_ context.Context, status string) ([]models.PendingWork, error) {
	var out []models.PendingWork
	for _, w := range f.byID {
		if status == "" || w.Status == status {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.PendingWork, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &w, nil
}

func (f *fakeWorkStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	f.lastUpdate = fields
	return nil
}

func (f *fakeWorkStore) SetStatus(_ context.Context, id primitive.ObjectID, status string, now time.Time) error {
	w := f.byID[id]
	w.Status = status
	f.byID[id] = w
	f.lastStatus = status
	f.statusTimes = append(f.statusTimes, now)
	return nil
}

type fakeCascade struct {
	deleted        []models.PendingWork
	membersDeleted int64
}

func (f *fakeCascade) DeletePendingWork(_ context.Context, work models.PendingWork) (int64, error) {
	f.deleted = append(f.deleted, work)
	return f.membersDeleted, nil
}

func newWorksRouter(store *fakeWorkStore, cascade *fakeCascade) http.Handler {
	logger := zap.NewNop()
	h := works.NewHandler(store, cascade, uierrors.NewErrorLogger(logger), logger)
	return works.Routes(h)
}

func seedWork(store *fakeWorkStore, status, workType string) models.PendingWork {
	w := models.PendingWork{
		ID:           primitive.NewObjectID(),
		CustomerName: "Priya Sharma",
		Contact:      "9876543210",
		Status:       status,
		Type:         workType,
	}
	store.byID[w.ID] = w
	return w
}

func TestHandleList_FiltersByStatus(t *testing.T) {
	store := newFakeWorkStore()
	seedWork(store, models.WorkStatusPending, models.WorkTypeIndividual)
	seedWork(store, models.WorkStatusCompleted, models.WorkTypeIndividual)
	router := newWorksRouter(store, &fakeCascade{})

	req := httptest.NewRequest("GET", "/?status=pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []models.PendingWork
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 1 || got[0].Status != models.WorkStatusPending {
		t.Errorf("expected 1 pending work, got %+v", got)
	}
}

func TestHandleList_RejectsUnknownStatus(t *testing.T) {
	router := newWorksRouter(newFakeWorkStore(), &fakeCascade{})

	req := httptest.NewRequest("GET", "/?status=archived", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	router := newWorksRouter(newFakeWorkStore(), &fakeCascade{})

	req := httptest.NewRequest("GET", "/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleGet_BadID(t *testing.T) {
	router := newWorksRouter(newFakeWorkStore(), &fakeCascade{})

	req := httptest.NewRequest("GET", "/not-an-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleUpdate_PartialFields(t *testing.T) {
	store := newFakeWorkStore()
	w := seedWork(store, models.WorkStatusPending, models.WorkTypeIndividual)
	router := newWorksRouter(store, &fakeCascade{})

	body := `{"description":"<b>repaint</b> the shutter","estimated_cost":2500}`
	req := httptest.NewRequest("PATCH", "/"+w.ID.Hex(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastUpdate["estimated_cost"] != 2500.0 {
		t.Errorf("estimated_cost = %v, want 2500", store.lastUpdate["estimated_cost"])
	}
	if desc, _ := store.lastUpdate["description"].(string); strings.Contains(desc, "<b>") {
		t.Errorf("description not sanitized: %q", desc)
	}
	if _, present := store.lastUpdate["customer_name"]; present {
		t.Error("omitted fields must not be written")
	}
}

func TestHandleUpdate_EmptyBody(t *testing.T) {
	store := newFakeWorkStore()
	w := seedWork(store, models.WorkStatusPending, models.WorkTypeIndividual)
	router := newWorksRouter(store, &fakeCascade{})

	req := httptest.NewRequest("PATCH", "/"+w.ID.Hex(), strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for empty update, got %d", rec.Code)
	}
}

func TestHandleSetStatus(t *testing.T) {
	store := newFakeWorkStore()
	w := seedWork(store, models.WorkStatusPending, models.WorkTypeIndividual)
	router := newWorksRouter(store, &fakeCascade{})

	req := httptest.NewRequest("POST", "/"+w.ID.Hex()+"/status",
		strings.NewReader(`{"status":"in-progress"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastStatus != models.WorkStatusInProgress {
		t.Errorf("status = %q, want in-progress", store.lastStatus)
	}
}

func TestHandleSetStatus_Unknown(t *testing.T) {
	store := newFakeWorkStore()
	w := seedWork(store, models.WorkStatusPending, models.WorkTypeIndividual)
	router := newWorksRouter(store, &fakeCascade{})

	req := httptest.NewRequest("POST", "/"+w.ID.Hex()+"/status",
		strings.NewReader(`{"status":"paused"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleDelete_CascadesThroughOrchestrator(t *testing.T) {
	store := newFakeWorkStore()
	w := seedWork(store, models.WorkStatusPending, models.WorkTypeMembership)
	cascade := &fakeCascade{membersDeleted: 1}
	router := newWorksRouter(store, cascade)

	req := httptest.NewRequest("DELETE", "/"+w.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(cascade.deleted) != 1 || cascade.deleted[0].ID != w.ID {
		t.Fatalf("cascade not invoked with the work: %+v", cascade.deleted)
	}

	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["members_deleted"] != 1 {
		t.Errorf("members_deleted = %d, want 1", resp["members_deleted"])
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	router := newWorksRouter(newFakeWorkStore(), &fakeCascade{})

	req := httptest.NewRequest("DELETE", "/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
