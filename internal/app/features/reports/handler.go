// internal/app/features/reports/handler.go

// Package reports serves the daily summary, the monthly salary sheet, and
// the membership due list. All arithmetic lives in system/reports; this
// package only gathers the inputs and shapes the JSON.
package reports

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/csvutil"
	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/app/system/reports"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WorkSource lists pending works for revenue math.
type WorkSource interface {
	List(ctx context.Context, status string) ([]models.PendingWork, error)
}

// AttendanceSource provides the attendance slices the reports read.
type AttendanceSource interface {
	ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error)
	ListByEmployeeMonth(ctx context.Context, employeeID primitive.ObjectID, year int, month time.Month) ([]models.AttendanceRecord, error)
}

// UpadSource provides same-month advances for net salary.
type UpadSource interface {
	ListByEmployeeMonth(ctx context.Context, employeeID primitive.ObjectID, year int, month time.Month) ([]models.UpadRecord, error)
}

// ExpenseSource provides the day's other expenses.
type ExpenseSource interface {
	ListByDate(ctx context.Context, date string) ([]models.OtherExpense, error)
}

// EmployeeSource provides the roster for the salary sheet.
type EmployeeSource interface {
	List(ctx context.Context) ([]models.Employee, error)
}

// MemberSource provides members for the due list.
type MemberSource interface {
	List(ctx context.Context) ([]models.MembershipMember, error)
}

type Handler struct {
	Works      WorkSource
	Attendance AttendanceSource
	Upads      UpadSource
	Expenses   ExpenseSource
	Employees  EmployeeSource
	Members    MemberSource
	DayRate    float64
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewHandler(
	works WorkSource,
	att AttendanceSource,
	upads UpadSource,
	expenses ExpenseSource,
	employees EmployeeSource,
	members MemberSource,
	dayRate float64,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Works:      works,
		Attendance: att,
		Upads:      upads,
		Expenses:   expenses,
		Employees:  employees,
		Members:    members,
		DayRate:    dayRate,
		ErrLog:     errLog,
		Log:        logger,
		Now:        time.Now,
	}
}

type dailySummary struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	Salary           float64 `json:"salary"`
	Expenses         float64 `json:"expenses"`
	Profit           float64 `json:"profit"`
	RevenueFormatted string  `json:"revenue_formatted"`
	ProfitFormatted  string  `json:"profit_formatted"`
}

// HandleDaily answers GET /reports/daily?date=YYYY-MM-DD (default today).
func (h *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	date := normalize.Date(r.URL.Query().Get("date"))
	if date == "" {
		if raw := r.URL.Query().Get("date"); raw != "" {
			uierrors.Message(w, http.StatusUnprocessableEntity, "Date must be in YYYY-MM-DD form.")
			return
		}
		date = h.Now().Format(normalize.DateLayout)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	works, err := h.Works.List(ctx, models.WorkStatusCompleted)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list completed works", err, "Could not build the report.")
		return
	}
	records, err := h.Attendance.ListByDate(ctx, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list attendance", err, "Could not build the report.")
		return
	}
	expenses, err := h.Expenses.ListByDate(ctx, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list expenses", err, "Could not build the report.")
		return
	}

	revenue := reports.DailyRevenue(works, date)
	salary := reports.DaySalary(records, date, h.DayRate)
	spent := reports.ExpenseTotal(expenses, date)
	profit := reports.DailyProfit(revenue, salary, spent)

	uierrors.JSON(w, http.StatusOK, dailySummary{
		Date:             date,
		Revenue:          revenue,
		Salary:           salary,
		Expenses:         spent,
		Profit:           profit,
		RevenueFormatted: reports.FormatINR(revenue),
		ProfitFormatted:  reports.FormatINR(profit),
	})
}

type salaryRow struct {
	EmployeeID         string  `json:"employee_id"`
	Name               string  `json:"name"`
	DaysMarked         int     `json:"days_marked"`
	Salary             float64 `json:"salary"`
	UpadTotal          float64 `json:"upad_total"`
	NetSalary          float64 `json:"net_salary"`
	NetSalaryFormatted string  `json:"net_salary_formatted"`
}

// parseYearMonth reads ?year= and ?month= and reports whether both are
// usable.
func parseYearMonth(r *http.Request) (int, time.Month, bool) {
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	monthNum, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if errY != nil || errM != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, false
	}
	return year, time.Month(monthNum), true
}

// salaryRows builds one row per employee for the given month, salary net of
// same-month advances.
func (h *Handler) salaryRows(ctx context.Context, year int, month time.Month) ([]salaryRow, error) {
	roster, err := h.Employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	rows := make([]salaryRow, 0, len(roster))
	for _, emp := range roster {
		records, err := h.Attendance.ListByEmployeeMonth(ctx, emp.ID, year, month)
		if err != nil {
			return nil, fmt.Errorf("list attendance for %s: %w", emp.ID.Hex(), err)
		}
		upadRecs, err := h.Upads.ListByEmployeeMonth(ctx, emp.ID, year, month)
		if err != nil {
			return nil, fmt.Errorf("list upads for %s: %w", emp.ID.Hex(), err)
		}

		salary := reports.MonthlySalary(records, h.DayRate)
		upadTotal := reports.UpadTotal(upadRecs)
		net := salary - upadTotal

		rows = append(rows, salaryRow{
			EmployeeID:         emp.ID.Hex(),
			Name:               emp.Name,
			DaysMarked:         len(records),
			Salary:             salary,
			UpadTotal:          upadTotal,
			NetSalary:          net,
			NetSalaryFormatted: reports.FormatINR(net),
		})
	}
	return rows, nil
}

// HandleSalary answers GET /reports/salary?year=2025&month=6: one row per
// employee, salary net of same-month advances.
func (h *Handler) HandleSalary(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		uierrors.Message(w, http.StatusUnprocessableEntity, "year and month must be numeric, month 1-12.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rows, err := h.salaryRows(ctx, year, month)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build salary sheet", err, "Could not build the salary sheet.")
		return
	}

	uierrors.JSON(w, http.StatusOK, rows)
}

// HandleSalaryCSV answers GET /reports/salary.csv?year=&month= with the same
// sheet as a spreadsheet download.
func (h *Handler) HandleSalaryCSV(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		uierrors.Message(w, http.StatusUnprocessableEntity, "year and month must be numeric, month 1-12.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rows, err := h.salaryRows(ctx, year, month)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build salary sheet", err, "Could not build the salary sheet.")
		return
	}

	sheet := make([]csvutil.SalaryRow, 0, len(rows))
	for _, row := range rows {
		sheet = append(sheet, csvutil.SalaryRow{
			Name:       row.Name,
			DaysMarked: row.DaysMarked,
			Salary:     row.Salary,
			UpadTotal:  row.UpadTotal,
			NetSalary:  row.NetSalary,
		})
	}

	filename := fmt.Sprintf("salary-%04d-%02d.csv", year, int(month))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := csvutil.WriteSalarySheet(w, sheet); err != nil {
		h.Log.Warn("salary csv write failed", zap.Error(err))
	}
}

type dueRow struct {
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	Contact       string `json:"contact"`
	JoinDate      string `json:"join_date"`
	NextDueDate   string `json:"next_due_date"`
	DaysRemaining int    `json:"days_remaining"`
	DueToday      bool   `json:"due_today"`
}

// HandleDueList answers GET /reports/due: members with computable renewal
// dates, soonest first. Members without a join date or duration are skipped.
func (h *Handler) HandleDueList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err, "Could not build the due list.")
		return
	}

	now := h.Now()
	rows := make([]dueRow, 0, len(members))
	for _, m := range members {
		if m.JoinDate == "" || m.MembershipDuration == "" {
			continue
		}
		due, err := reports.NextDueDate(m.JoinDate, m.MembershipDuration)
		if err != nil {
			h.Log.Warn("unparseable membership duration",
				zap.String("member_id", m.ID.Hex()),
				zap.String("duration", m.MembershipDuration))
			continue
		}
		days, err := reports.DaysRemaining(due, now)
		if err != nil {
			continue
		}
		rows = append(rows, dueRow{
			MemberID:      m.ID.Hex(),
			Name:          m.Name,
			Contact:       m.Contact,
			JoinDate:      m.JoinDate,
			NextDueDate:   due,
			DaysRemaining: days,
			DueToday:      reports.DueToday(due, now),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].DaysRemaining < rows[j].DaysRemaining })
	uierrors.JSON(w, http.StatusOK, rows)
}
