// internal/app/system/reports/reports.go

// Package reports holds the pure aggregate calculators behind the reporting
// endpoints: daily revenue and profit, monthly salaries net of advances, and
// membership due dates. Everything operates on in-memory slices with explicit
// date parameters, so results are deterministic given their inputs.
package reports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/normalize"
	"github.com/udyoghq/udyog/internal/domain/models"
)

// OnDate reports whether a record dated (date, createdAt) falls on the target
// calendar date ("2006-01-02"). Records with an empty date field fall back to
// their creation timestamp truncated to the local calendar date.
func OnDate(date string, createdAt time.Time, target string) bool {
	if date != "" {
		return date == target
	}
	if createdAt.IsZero() {
		return false
	}
	return createdAt.Local().Format(normalize.DateLayout) == target
}

// DailyRevenue sums the estimated cost of completed works on the given date.
func DailyRevenue(works []models.PendingWork, date string) float64 {
	var total float64
	for _, w := range works {
		if w.Status != models.WorkStatusCompleted {
			continue
		}
		if OnDate(w.Date, w.CreatedAt, date) {
			total += w.EstimatedCost
		}
	}
	return total
}

// DaySalary sums one day's wages from the attendance records on the given
// date: a present day pays the full day rate, a half day pays half, absences
// and leave pay nothing.
func DaySalary(records []models.AttendanceRecord, date string, dayRate float64) float64 {
	var total float64
	for _, r := range records {
		if !OnDate(r.Date, r.CreatedAt, date) {
			continue
		}
		total += wage(r.Status, dayRate)
	}
	return total
}

// MonthlySalary sums wages over the given records, which the caller has
// already scoped to one employee and one month.
func MonthlySalary(records []models.AttendanceRecord, dayRate float64) float64 {
	var total float64
	for _, r := range records {
		total += wage(r.Status, dayRate)
	}
	return total
}

// UpadTotal sums the advance amounts in the slice.
func UpadTotal(upads []models.UpadRecord) float64 {
	var total float64
	for _, u := range upads {
		total += u.Amount
	}
	return total
}

// NetSalary is the month's salary minus advances taken in the same month.
// It can go negative when advances exceed the earned salary.
func NetSalary(records []models.AttendanceRecord, upads []models.UpadRecord, dayRate float64) float64 {
	return MonthlySalary(records, dayRate) - UpadTotal(upads)
}

// ExpenseTotal sums the other-expense entries on the given date.
func ExpenseTotal(expenses []models.OtherExpense, date string) float64 {
	var total float64
	for _, e := range expenses {
		if OnDate(e.Date, e.CreatedAt, date) {
			total += e.Amount
		}
	}
	return total
}

// DailyProfit is the day's revenue minus the day's salary and expense totals.
func DailyProfit(revenue, salary, expenses float64) float64 {
	return revenue - salary - expenses
}

func wage(status string, dayRate float64) float64 {
	switch status {
	case models.AttendancePresent:
		return dayRate
	case models.AttendanceHalfDay:
		return dayRate / 2
	}
	return 0
}

// NextDueDate computes the membership renewal date from a join date and a
// duration token like "30days" or "3month". Day durations add calendar days;
// month durations add calendar months, so "3month" from 2025-01-01 is
// 2025-04-01 regardless of month lengths in between.
func NextDueDate(joinDate, duration string) (string, error) {
	join, err := time.Parse(normalize.DateLayout, joinDate)
	if err != nil {
		return "", fmt.Errorf("parse join date %q: %w", joinDate, err)
	}

	d := strings.ToLower(strings.TrimSpace(duration))
	switch {
	case strings.HasSuffix(d, "days"):
		n, err := strconv.Atoi(strings.TrimSuffix(d, "days"))
		if err != nil {
			return "", fmt.Errorf("bad duration %q", duration)
		}
		return join.AddDate(0, 0, n).Format(normalize.DateLayout), nil
	case strings.HasSuffix(d, "day"):
		n, err := strconv.Atoi(strings.TrimSuffix(d, "day"))
		if err != nil {
			return "", fmt.Errorf("bad duration %q", duration)
		}
		return join.AddDate(0, 0, n).Format(normalize.DateLayout), nil
	case strings.HasSuffix(d, "months"):
		n, err := strconv.Atoi(strings.TrimSuffix(d, "months"))
		if err != nil {
			return "", fmt.Errorf("bad duration %q", duration)
		}
		return join.AddDate(0, n, 0).Format(normalize.DateLayout), nil
	case strings.HasSuffix(d, "month"):
		n, err := strconv.Atoi(strings.TrimSuffix(d, "month"))
		if err != nil {
			return "", fmt.Errorf("bad duration %q", duration)
		}
		return join.AddDate(0, n, 0).Format(normalize.DateLayout), nil
	}
	return "", fmt.Errorf("bad duration %q", duration)
}

// DaysRemaining returns the signed whole days between now's calendar date and
// the due date: positive while the due date is ahead, negative once overdue.
func DaysRemaining(dueDate string, now time.Time) (int, error) {
	due, err := time.Parse(normalize.DateLayout, dueDate)
	if err != nil {
		return 0, fmt.Errorf("parse due date %q: %w", dueDate, err)
	}
	today, err := time.Parse(normalize.DateLayout, now.Local().Format(normalize.DateLayout))
	if err != nil {
		return 0, err
	}
	return int(due.Sub(today).Hours() / 24), nil
}

// DueToday reports whether the due date is now's calendar date.
func DueToday(dueDate string, now time.Time) bool {
	return dueDate == now.Local().Format(normalize.DateLayout)
}

// FormatINR renders an amount with the rupee sign and Indian digit grouping:
// the last three digits form one group, every pair after that gets its own,
// e.g. 50000 -> "₹50,000" and 1234567 -> "₹12,34,567". Fractions are kept to
// two places only when non-zero.
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	// Round to whole paise once so a fraction near 1 carries into the rupees.
	paise := int64(math.Round(amount * 100))
	whole := paise / 100
	frac := paise % 100

	out := "₹" + groupIndian(strconv.FormatInt(whole, 10))
	if frac != 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	head := digits[:n-3]
	tail := digits[n-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}
