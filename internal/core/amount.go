// Package core provides the domain model shared by the habit engine.
//
// This file contains parsing and rounding helpers for monetary amounts and
// the calendar-day keys the ledger is indexed by.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAmount converts a decimal string to a positive amount in currency
// units. Both dot (12.34) and comma (12,34) separators are accepted. Signs,
// empty strings, and non-positive values are rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// RoundUnits rounds an amount to the nearest whole currency unit, half away
// from zero. Ledger entries always carry rounded whole-unit amounts.
func RoundUnits(v float64) int64 {
	return int64(math.Round(v))
}

// DayKey formats a timestamp as its calendar day, YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameMonth reports whether a YYYY-MM-DD day key falls in the calendar month
// of now.
func SameMonth(dayKey string, now time.Time) bool {
	return strings.HasPrefix(dayKey, now.Format("2006-01")+"-")
}

// DaysInMonth returns the number of calendar days in the month of t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
