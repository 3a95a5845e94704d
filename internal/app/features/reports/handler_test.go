package reports_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	featurereports "github.com/udyoghq/udyog/internal/app/features/reports"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	works     []models.PendingWork
	byDate    map[string][]models.AttendanceRecord
	byMonth   map[primitive.ObjectID][]models.AttendanceRecord
	upads     map[primitive.ObjectID][]models.UpadRecord
	expenses  map[string][]models.OtherExpense
	employees []models.Employee
	members   []models.MembershipMember
}

func (f *fixture) List(_ context.Context, status string) ([]models.PendingWork, error) {
	var out []models.PendingWork
	for _, w := range f.works {
		if status == "" || w.Status == status {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fixture) ListByDate(_ context.Context, date string) ([]models.AttendanceRecord, error) {
	return f.byDate[date], nil
}

func (f *fixture) ListByEmployeeMonth(_ context.Context, id primitive.ObjectID, _ int, _ time.Month) ([]models.AttendanceRecord, error) {
	return f.byMonth[id], nil
}

type upadSource fixture

func (f *upadSource) ListByEmployeeMonth(_ context.Context, id primitive.ObjectID, _ int, _ time.Month) ([]models.UpadRecord, error) {
	return f.upads[id], nil
}

type expenseSource fixture

func (f *expenseSource) ListByDate(_ context.Context, date string) ([]models.OtherExpense, error) {
	return f.expenses[date], nil
}

type employeeSource fixture

func (f *employeeSource) List(_ context.Context) ([]models.Employee, error) {
	return f.employees, nil
}

type memberSource fixture

func (f *memberSource) List(_ context.Context) ([]models.MembershipMember, error) {
	return f.members, nil
}

func newReportsRouter(f *fixture, dayRate float64, now time.Time) http.Handler {
	logger := zap.NewNop()
	h := featurereports.NewHandler(
		f, f, (*upadSource)(f), (*expenseSource)(f), (*employeeSource)(f), (*memberSource)(f),
		dayRate, uierrors.NewErrorLogger(logger), logger)
	h.Now = func() time.Time { return now }
	return featurereports.Routes(h)
}

func TestHandleDaily(t *testing.T) {
	f := &fixture{
		works: []models.PendingWork{
			{Status: models.WorkStatusCompleted, EstimatedCost: 10000, Date: "2025-06-02"},
			{Status: models.WorkStatusPending, EstimatedCost: 4000, Date: "2025-06-02"},
		},
		byDate: map[string][]models.AttendanceRecord{
			"2025-06-02": {
				{Date: "2025-06-02", Status: models.AttendancePresent},
				{Date: "2025-06-02", Status: models.AttendanceHalfDay},
			},
		},
		expenses: map[string][]models.OtherExpense{
			"2025-06-02": {{Amount: 1200, Date: "2025-06-02"}},
		},
	}
	router := newReportsRouter(f, 500, time.Now())

	req := httptest.NewRequest("GET", "/daily?date=2025-06-02", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		Revenue          float64 `json:"revenue"`
		Salary           float64 `json:"salary"`
		Expenses         float64 `json:"expenses"`
		Profit           float64 `json:"profit"`
		RevenueFormatted string  `json:"revenue_formatted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Revenue != 10000 {
		t.Errorf("revenue = %v, want 10000", got.Revenue)
	}
	if got.Salary != 750 {
		t.Errorf("salary = %v, want 750", got.Salary)
	}
	if got.Expenses != 1200 {
		t.Errorf("expenses = %v, want 1200", got.Expenses)
	}
	if got.Profit != 8050 {
		t.Errorf("profit = %v, want 8050", got.Profit)
	}
	if got.RevenueFormatted != "₹10,000" {
		t.Errorf("revenue_formatted = %q, want ₹10,000", got.RevenueFormatted)
	}
}

func TestHandleSalary_NetOfAdvances(t *testing.T) {
	empID := primitive.NewObjectID()
	f := &fixture{
		employees: []models.Employee{{ID: empID, Name: "Ravi"}},
		byMonth: map[primitive.ObjectID][]models.AttendanceRecord{
			empID: {
				{Status: models.AttendancePresent},
				{Status: models.AttendancePresent},
				{Status: models.AttendanceHalfDay},
				{Status: models.AttendanceAbsent},
			},
		},
		upads: map[primitive.ObjectID][]models.UpadRecord{
			empID: {{Amount: 400}},
		},
	}
	router := newReportsRouter(f, 500, time.Now())

	req := httptest.NewRequest("GET", "/salary?year=2025&month=6", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []struct {
		Name      string  `json:"name"`
		Salary    float64 `json:"salary"`
		UpadTotal float64 `json:"upad_total"`
		NetSalary float64 `json:"net_salary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Salary != 1250 {
		t.Errorf("salary = %v, want 1250", rows[0].Salary)
	}
	if rows[0].NetSalary != 850 {
		t.Errorf("net salary = %v, want 850", rows[0].NetSalary)
	}
}

func TestHandleSalaryCSV(t *testing.T) {
	empID := primitive.NewObjectID()
	f := &fixture{
		employees: []models.Employee{{ID: empID, Name: "Ravi"}},
		byMonth: map[primitive.ObjectID][]models.AttendanceRecord{
			empID: {{Status: models.AttendancePresent}, {Status: models.AttendancePresent}},
		},
		upads: map[primitive.ObjectID][]models.UpadRecord{
			empID: {{Amount: 100}},
		},
	}
	router := newReportsRouter(f, 500, time.Now())

	req := httptest.NewRequest("GET", "/salary.csv?year=2025&month=6", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="salary-2025-06.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	want := "Name,Days Marked,Salary,Upad,Net Salary\nRavi,2,1000,100,900\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestHandleSalary_RequiresYearMonth(t *testing.T) {
	router := newReportsRouter(&fixture{}, 500, time.Now())

	req := httptest.NewRequest("GET", "/salary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleDueList_SortedSoonestFirst(t *testing.T) {
	f := &fixture{
		members: []models.MembershipMember{
			{ID: primitive.NewObjectID(), Name: "Later", JoinDate: "2025-01-01", MembershipDuration: "3month"},
			{ID: primitive.NewObjectID(), Name: "Sooner", JoinDate: "2025-01-01", MembershipDuration: "30days"},
			{ID: primitive.NewObjectID(), Name: "NoDuration", JoinDate: "2025-01-01"},
		},
	}
	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.Local)
	router := newReportsRouter(f, 500, now)

	req := httptest.NewRequest("GET", "/due", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []struct {
		Name          string `json:"name"`
		NextDueDate   string `json:"next_due_date"`
		DaysRemaining int    `json:"days_remaining"`
		DueToday      bool   `json:"due_today"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (member without duration skipped), got %d", len(rows))
	}
	if rows[0].Name != "Sooner" || !rows[0].DueToday {
		t.Errorf("first row should be due today: %+v", rows[0])
	}
	if rows[1].Name != "Later" || rows[1].NextDueDate != "2025-04-01" {
		t.Errorf("second row should be the 3month member: %+v", rows[1])
	}
}
