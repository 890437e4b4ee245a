// Package calendar models the twelve-month reckoning of the game world: twelve
// named months of 30 days followed by the five Nameless Days, 365 days a year.
// Dates are compared and shifted only through their linear day index.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// DaysPerMonth is the length of every named month.
	DaysPerMonth = 30
	// NamelessDayCount is the length of the intercalary block.
	NamelessDayCount = 5
	// DaysPerYear is twelve months plus the Nameless Days.
	DaysPerYear = 12*DaysPerMonth + NamelessDayCount
	// MaxYear bounds parsed years in both directions so day arithmetic stays
	// far from int overflow.
	MaxYear = 1_000_000
)

// ErrInvalidDate is wrapped by ParseDate errors.
var ErrInvalidDate = errors.New("invalid date")

// Month is one of the twelve named months or the Nameless Days block.
type Month int

const (
	Praios Month = iota
	Rondra
	Efferd
	Travia
	Boron
	Hesinde
	Firun
	Tsa
	Phex
	Peraine
	Ingerimm
	Rahja
	NamelessDays
)

var monthNames = [...]string{
	Praios:       "Praios",
	Rondra:       "Rondra",
	Efferd:       "Efferd",
	Travia:       "Travia",
	Boron:        "Boron",
	Hesinde:      "Hesinde",
	Firun:        "Firun",
	Tsa:          "Tsa",
	Phex:         "Phex",
	Peraine:      "Peraine",
	Ingerimm:     "Ingerimm",
	Rahja:        "Rahja",
	NamelessDays: "Namenlose Tage",
}

var fold = cases.Fold()

var monthByName = func() map[string]Month {
	m := make(map[string]Month, len(monthNames))
	for i, name := range monthNames {
		m[fold.String(name)] = Month(i)
	}
	return m
}()

// String returns the month's display name.
func (m Month) String() string {
	if m < Praios || m > NamelessDays {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m]
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	if m == NamelessDays {
		return NamelessDayCount
	}
	return DaysPerMonth
}

// Date is a calendar date. Day is 1..30, or 1..5 in the Nameless Days.
type Date struct {
	Day   int
	Month Month
	Year  int
}

// UnlimitedDate is the expiry of something that never spoils. It sorts after
// every real date and renders as "unbegrenzt".
var UnlimitedDate = Date{Day: NamelessDayCount, Month: NamelessDays, Year: math.MaxInt32}

// IsUnlimited reports whether d is the UnlimitedDate sentinel.
func (d Date) IsUnlimited() bool { return d == UnlimitedDate }

// Valid reports whether d names an existing day.
func (d Date) Valid() bool {
	if d.Month < Praios || d.Month > NamelessDays {
		return false
	}
	return d.Day >= 1 && d.Day <= d.Month.Days()
}

// String renders "<day> <month> <year> BF", e.g. "15 Praios 1040 BF".
func (d Date) String() string {
	if d.IsUnlimited() {
		return "unbegrenzt"
	}
	return fmt.Sprintf("%d %s %d BF", d.Day, d.Month, d.Year)
}

// DayIndex projects d onto a linear day count: year*365 + monthOffset + day - 1.
//
// Precondition: d.Valid().
func DayIndex(d Date) int {
	return d.Year*DaysPerYear + int(d.Month)*DaysPerMonth + d.Day - 1
}

// FromDayIndex is the inverse of DayIndex for every integer, negative included.
func FromDayIndex(idx int) Date {
	year := idx / DaysPerYear
	rem := idx % DaysPerYear
	if rem < 0 {
		rem += DaysPerYear
		year--
	}
	return Date{
		Day:   rem%DaysPerMonth + 1,
		Month: Month(rem / DaysPerMonth),
		Year:  year,
	}
}

// AddDays returns d shifted by n days. The UnlimitedDate is returned unchanged.
//
// Precondition: the result lies within int range; ResolveDuration and ParseDate
// bound their values so that it does.
func (d Date) AddDays(n int) Date {
	if d.IsUnlimited() {
		return d
	}
	return FromDayIndex(DayIndex(d) + n)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return DayIndex(d) < DayIndex(other) }

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int { return DayIndex(other) - DayIndex(d) }

var dateText = regexp.MustCompile(`(?i)^(\d{1,2})\.?\s+(.+?)\s+(-?\d+)(?:\s+BF)?$`)

// ParseDate parses "<day> <MonthName|Namenlose Tage> <year> BF"; the era
// suffix and a dot after the day are optional, month names are case-insensitive.
//
// Postcondition: Returns a valid Date or an error wrapping ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	text := strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	if fold.String(text) == fold.String(UnlimitedDate.String()) {
		return UnlimitedDate, nil
	}
	m := dateText.FindStringSubmatch(text)
	if m == nil {
		return Date{}, fmt.Errorf("calendar: %q: %w", s, ErrInvalidDate)
	}
	month, ok := monthByName[fold.String(m[2])]
	if !ok {
		return Date{}, fmt.Errorf("calendar: unknown month %q: %w", m[2], ErrInvalidDate)
	}
	day, _ := strconv.Atoi(m[1])
	year, err := strconv.Atoi(m[3])
	if err != nil || year < -MaxYear || year > MaxYear {
		return Date{}, fmt.Errorf("calendar: year %q outside ±%d: %w", m[3], MaxYear, ErrInvalidDate)
	}
	d := Date{Day: day, Month: month, Year: year}
	if !d.Valid() {
		return Date{}, fmt.Errorf("calendar: %s has no day %d: %w", month, day, ErrInvalidDate)
	}
	return d, nil
}
