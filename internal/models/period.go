package models

import (
	"fmt"
	"time"
)

// Period is a calendar month, the unit of budget evaluation and trend reporting.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf returns the month containing d.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year(), Month: int(d.Month())}
}

// Valid reports whether the month is 1-12 and the year is plausible.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 1 && p.Year <= 9999
}

// Start returns the first day of the month.
func (p Period) Start() Date {
	return NewDate(p.Year, time.Month(p.Month), 1)
}

// End returns the last day of the month.
func (p Period) End() Date {
	return NewDate(p.Year, time.Month(p.Month)+1, 0)
}

// Range returns the inclusive range covering the month.
func (p Period) Range() DateRange {
	return DateRange{From: p.Start(), To: p.End()}
}

// Add returns the period n months later (n may be negative).
func (p Period) Add(n int) Period {
	return PeriodOf(NewDate(p.Year, time.Month(p.Month)+time.Month(n), 1))
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
