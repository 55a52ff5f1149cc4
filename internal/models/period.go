package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Accepted year range for monthly statistics.
const (
	MinYear = 2020
	MaxYear = 2100
)

// ErrInvalidPeriod is returned when a month or year is malformed or out of range.
var ErrInvalidPeriod = errors.New("invalid period")

var monthPattern = regexp.MustCompile(`^\d{2}$`)

// Period identifies one month of one year. Month is always two digits,
// "01" through "12".
type Period struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// NewPeriod validates month and year and returns the Period.
func NewPeriod(month string, year int) (Period, error) {
	p := Period{Month: month, Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the month format and the year range.
func (p Period) Validate() error {
	if !monthPattern.MatchString(p.Month) {
		return fmt.Errorf("%w: month must be two digits, got %q", ErrInvalidPeriod, p.Month)
	}
	m := p.monthNumber()
	if m < 1 || m > 12 {
		return fmt.Errorf("%w: month must be between 01 and 12, got %q", ErrInvalidPeriod, p.Month)
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidPeriod, MinYear, MaxYear, p.Year)
	}
	return nil
}

// Previous returns the immediately preceding month. January rolls back to
// December of the previous year.
func (p Period) Previous() Period {
	m := p.monthNumber()
	if m <= 1 {
		return Period{Month: "12", Year: p.Year - 1}
	}
	return Period{Month: fmt.Sprintf("%02d", m-1), Year: p.Year}
}

func (p Period) String() string {
	return p.Month + "/" + strconv.Itoa(p.Year)
}

func (p Period) monthNumber() int {
	m, err := strconv.Atoi(p.Month)
	if err != nil {
		return 0
	}
	return m
}
