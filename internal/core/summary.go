package core

import "fmt"

// MaxFlowPeriods caps the monthly flow to the most recent year-months.
const MaxFlowPeriods = 12

// MonthlyFlow is the income/expense total of one calendar year-month.
type MonthlyFlow struct {
	Period  string // YYYY-MM
	Income  Money
	Expense Money
}

// Net is income minus expense for the period.
func (f MonthlyFlow) Net() Money {
	return Money{Cents: f.Income.Cents - f.Expense.Cents}
}

// MonthLabel returns the MM part of the period, as shown under each bar.
func (f MonthlyFlow) MonthLabel() string {
	if len(f.Period) == 7 {
		return f.Period[5:]
	}
	return f.Period
}

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name  string
	Total Money
}

// Balance is the running balance under a given filter.
type Balance struct {
	Income  Money
	Expense Money
}

func (b Balance) Net() Money {
	return Money{Cents: b.Income.Cents - b.Expense.Cents}
}

// Period narrows a query to a month and/or a year. Zero means "any".
// A month without a year matches that month in every year.
type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() error {
	if p.Month < 0 || p.Month > 12 {
		return &FieldError{Field: "mes", Err: fmt.Errorf("month %d out of range 1-12", p.Month)}
	}
	if p.Year < 0 || p.Year > 9999 {
		return &FieldError{Field: "ano", Err: fmt.Errorf("year %d out of range", p.Year)}
	}
	return nil
}

// TransactionFilter is the optional criteria of a transaction listing.
// All set criteria must hold.
type TransactionFilter struct {
	Period
	Kind Kind
}

func (f TransactionFilter) Validate() error {
	if err := f.Period.Validate(); err != nil {
		return err
	}
	if f.Kind != "" {
		if err := f.Kind.Validate(); err != nil {
			return &FieldError{Field: "tipo", Err: err}
		}
	}
	return nil
}

// IsZero reports whether no criteria are set.
func (f TransactionFilter) IsZero() bool {
	return f.Month == 0 && f.Year == 0 && f.Kind == ""
}
