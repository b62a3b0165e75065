package gamedate

import (
	"fmt"
	"strconv"
	"strings"
)

// StellarisDate is a date on the Stellaris calendar: twelve months of
// exactly 30 days, no hours, no leap logic.
type StellarisDate struct {
	Year uint16
	// Month is in 1..=12.
	Month uint8
	// Day is in 1..=30.
	Day uint8
}

// ParseStellarisDate parses the text form. Stellaris saves dates in
// quotation marks, and the quotes are required.
func ParseStellarisDate(text string) (StellarisDate, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || !strings.HasPrefix(text, `"`) || !strings.HasSuffix(text, `"`) {
		return StellarisDate{}, fmt.Errorf("date %q is not quoted", text)
	}
	parts := strings.Split(text[1:len(text)-1], ".")
	if len(parts) != 3 {
		return StellarisDate{}, fmt.Errorf("date %q did not have three parts", text)
	}
	year, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return StellarisDate{}, fmt.Errorf("parsing year of %q: %w", text, err)
	}
	month, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return StellarisDate{}, fmt.Errorf("parsing month of %q: %w", text, err)
	}
	day, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return StellarisDate{}, fmt.Errorf("parsing day of %q: %w", text, err)
	}
	if month < 1 || month > 12 {
		return StellarisDate{}, fmt.Errorf("invalid month in %q", text)
	}
	if day < 1 || day > 30 {
		return StellarisDate{}, fmt.Errorf("invalid day in %q", text)
	}
	return StellarisDate{Year: uint16(year), Month: uint8(month), Day: uint8(day)}, nil
}

// Tomorrow returns the next calendar day.
func (d StellarisDate) Tomorrow() StellarisDate {
	switch {
	case d.Day < 30:
		return StellarisDate{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	case d.Month == 12:
		return StellarisDate{Year: d.Year + 1, Month: 1, Day: 1}
	default:
		return StellarisDate{Year: d.Year, Month: d.Month + 1, Day: 1}
	}
}

// Yesterday returns the previous calendar day.
func (d StellarisDate) Yesterday() StellarisDate {
	switch {
	case d.Day > 1:
		return StellarisDate{Year: d.Year, Month: d.Month, Day: d.Day - 1}
	case d.Month == 1:
		return StellarisDate{Year: d.Year - 1, Month: 12, Day: 30}
	default:
		return StellarisDate{Year: d.Year, Month: d.Month - 1, Day: 30}
	}
}

// Before orders dates chronologically.
func (d StellarisDate) Before(other StellarisDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d StellarisDate) String() string {
	return fmt.Sprintf("%d.%02d.%02d", d.Year, d.Month, d.Day)
}
