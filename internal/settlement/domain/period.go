package domain

import (
	"fmt"
	"time"
)

// Period is one calendar month/year billing cycle, keyed "MM-YYYY".
type Period struct {
	Month int
	Year  int
}

func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 || year < 1 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Month: month, Year: year}, nil
}

// ParsePeriod parses a "MM-YYYY" key (two-digit month, four-digit year).
func ParsePeriod(key string) (Period, error) {
	var month, year int
	if _, err := fmt.Sscanf(key, "%02d-%04d", &month, &year); err != nil {
		return Period{}, ErrInvalidPeriod
	}
	if len(key) != 7 || key[2] != '-' {
		return Period{}, ErrInvalidPeriod
	}
	return NewPeriod(month, year)
}

func (p Period) String() string {
	return fmt.Sprintf("%02d-%04d", p.Month, p.Year)
}

// Previous returns the immediately preceding period, rolling the year at
// January.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Bounds returns the inclusive [start, end] instants covering the whole month
// in UTC.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
