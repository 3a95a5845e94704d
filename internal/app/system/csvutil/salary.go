// internal/app/system/csvutil/salary.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SalaryRow is one exported line of the monthly salary sheet.
type SalaryRow struct {
	Name       string
	DaysMarked int
	Salary     float64
	UpadTotal  float64
	NetSalary  float64
}

// WriteSalarySheet writes the monthly sheet with a header row. Amounts stay
// plain numbers (no currency symbol or grouping) so spreadsheets can sum
// them.
func WriteSalarySheet(w io.Writer, rows []SalaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Days Marked", "Salary", "Upad", "Net Salary"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Name,
			strconv.Itoa(r.DaysMarked),
			amount(r.Salary),
			amount(r.UpadTotal),
			amount(r.NetSalary),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
