package gamedate

import (
	"fmt"
	"strconv"
	"strings"
)

// EU4Date is a Y.M.D date on the 365-day EU4 calendar.
type EU4Date struct {
	Year  uint64
	Month Month
	// Day starts at 1 and runs to Month.Length().
	Day uint8
}

// NewEU4Date validates the day against the month length.
func NewEU4Date(year uint64, month Month, day uint8) (EU4Date, error) {
	if !month.Valid() {
		return EU4Date{}, fmt.Errorf("invalid month %d", month)
	}
	if day == 0 || day > month.Length() {
		return EU4Date{}, fmt.Errorf("invalid day %d for %s", day, month.Name())
	}
	return EU4Date{Year: year, Month: month, Day: day}, nil
}

// ParseEU4Date parses the unquoted "Y.M.D" text form.
func ParseEU4Date(text string) (EU4Date, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) != 3 {
		return EU4Date{}, fmt.Errorf("date %q did not have three parts", text)
	}
	year, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return EU4Date{}, fmt.Errorf("parsing year of %q: %w", text, err)
	}
	month, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return EU4Date{}, fmt.Errorf("parsing month of %q: %w", text, err)
	}
	day, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return EU4Date{}, fmt.Errorf("parsing day of %q: %w", text, err)
	}
	return NewEU4Date(year, Month(month), uint8(day))
}

// Tomorrow returns the next calendar day.
func (d EU4Date) Tomorrow() EU4Date {
	if d.Day < d.Month.Length() {
		return EU4Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month == December {
		return EU4Date{Year: d.Year + 1, Month: January, Day: 1}
	}
	return EU4Date{Year: d.Year, Month: d.Month.Next(), Day: 1}
}

// Before orders dates chronologically.
func (d EU4Date) Before(other EU4Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d EU4Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

// Human renders the long form, e.g. "11 November 1444".
func (d EU4Date) Human() string {
	return fmt.Sprintf("%d %s %d", d.Day, d.Month.Name(), d.Year)
}
