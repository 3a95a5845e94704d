package csvutil

import (
	"strings"
	"testing"
)

func TestWriteSalarySheet(t *testing.T) {
	rows := []SalaryRow{
		{Name: "Ravi Kumar", DaysMarked: 26, Salary: 13000, UpadTotal: 2000, NetSalary: 11000},
		{Name: "Priya Sharma", DaysMarked: 20, Salary: 9750.5, UpadTotal: 0, NetSalary: 9750.5},
	}

	var b strings.Builder
	if err := WriteSalarySheet(&b, rows); err != nil {
		t.Fatalf("WriteSalarySheet failed: %v", err)
	}

	want := "Name,Days Marked,Salary,Upad,Net Salary\n" +
		"Ravi Kumar,26,13000,2000,11000\n" +
		"Priya Sharma,20,9750.5,0,9750.5\n"
	if b.String() != want {
		t.Errorf("sheet = %q, want %q", b.String(), want)
	}
}

func TestWriteSalarySheet_Empty(t *testing.T) {
	var b strings.Builder
	if err := WriteSalarySheet(&b, nil); err != nil {
		t.Fatalf("WriteSalarySheet failed: %v", err)
	}
	if b.String() != "Name,Days Marked,Salary,Upad,Net Salary\n" {
		t.Errorf("expected header only, got %q", b.String())
	}
}
