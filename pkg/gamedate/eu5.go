package gamedate

import (
	"fmt"
	"strconv"
	"strings"
)

// EU5Date is a date on the EU5 calendar: the EU4 month lengths plus a
// clock that only ticks on even hours.
type EU5Date struct {
	Year  uint16
	Month Month
	// Day starts at 1 and runs to Month.Length().
	Day uint8
	// Hour is even, 0 through 22.
	Hour uint8
}

// dayOfYearStart[m] is the zero-based day-of-year on which month m
// begins; no leap days on this calendar.
var dayOfYearStart = func() [14]int32 {
	var table [14]int32
	for m := January; m <= December; m++ {
		table[m+1] = table[m] + int32(m.Length())
	}
	return table
}()

// EU5DateFromPacked decodes the binary single-integer encoding: the
// low factor is an hour code in 8..=19 mapping to even hours 0..=22,
// then a day-of-year in 0..365, then the year offset by 5000.
func EU5DateFromPacked(raw int32) (EU5Date, error) {
	hourCode := raw % 24
	if hourCode < 8 || hourCode > 19 {
		return EU5Date{}, fmt.Errorf("invalid packed date hour code %d", hourCode)
	}
	hour := uint8(hourCode-8) * 2
	raw /= 24

	dayOfYear := raw % 365
	month, day, err := monthDayFromDayOfYear(dayOfYear)
	if err != nil {
		return EU5Date{}, err
	}

	year := raw/365 - 5000
	if year < 0 || year > 0xffff {
		return EU5Date{}, fmt.Errorf("packed date year %d out of range", year)
	}
	return EU5Date{Year: uint16(year), Month: month, Day: day, Hour: hour}, nil
}

// Packed re-encodes the date into the binary integer form. It is the
// exact inverse of EU5DateFromPacked for every valid date.
func (d EU5Date) Packed() int32 {
	dayOfYear := dayOfYearStart[d.Month] + int32(d.Day) - 1
	hourCode := int32(d.Hour)/2 + 8
	return ((int32(d.Year)+5000)*365+dayOfYear)*24 + hourCode
}

func monthDayFromDayOfYear(dayOfYear int32) (Month, uint8, error) {
	if dayOfYear < 0 || dayOfYear >= 365 {
		return 0, 0, fmt.Errorf("invalid day of year %d", dayOfYear)
	}
	for m := January; m <= December; m++ {
		if dayOfYear < dayOfYearStart[m+1] {
			return m, uint8(dayOfYear-dayOfYearStart[m]) + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("invalid day of year %d", dayOfYear)
}

// ParseEU5Date parses the "Y.M.D" or "Y.M.D.H" text form. A missing
// hour component means hour 0; a present one carries the same 8..=19
// code as the packed encoding.
func ParseEU5Date(text string) (EU5Date, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) != 3 && len(parts) != 4 {
		return EU5Date{}, fmt.Errorf("date %q did not have three or four parts", text)
	}
	year, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return EU5Date{}, fmt.Errorf("parsing year of %q: %w", text, err)
	}
	monthNum, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return EU5Date{}, fmt.Errorf("parsing month of %q: %w", text, err)
	}
	month := Month(monthNum)
	if !month.Valid() {
		return EU5Date{}, fmt.Errorf("invalid month in %q", text)
	}
	day, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return EU5Date{}, fmt.Errorf("parsing day of %q: %w", text, err)
	}
	if day == 0 || uint8(day) > month.Length() {
		return EU5Date{}, fmt.Errorf("invalid day %d for %s", day, month.Name())
	}

	var hour uint8
	if len(parts) == 4 {
		code, err := strconv.ParseUint(parts[3], 10, 8)
		if err != nil {
			return EU5Date{}, fmt.Errorf("parsing hour of %q: %w", text, err)
		}
		if code < 8 || code > 19 {
			return EU5Date{}, fmt.Errorf("invalid hour code %d in %q", code, text)
		}
		hour = uint8(code-8) * 2
	}

	return EU5Date{Year: uint16(year), Month: month, Day: uint8(day), Hour: hour}, nil
}

func (d EU5Date) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", d.Year, d.Month, d.Day, d.Hour)
}

// Human renders the long form, e.g. "04:00, 11 November 1444".
func (d EU5Date) Human() string {
	return fmt.Sprintf("%02d:00, %d %s %d", d.Hour, d.Day, d.Month.Name(), d.Year)
}
