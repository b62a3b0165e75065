// Package gamedate implements the three calendar variants used across
// the Clausewitz save formats: the EU4 calendar (real month lengths,
// no hour), the EU5 calendar (real month lengths plus a packed
// two-hour clock), and the Stellaris calendar (twelve 30-day months).
// The calendars share no encoding; each type carries its own parsing
// and formatting rules.
package gamedate

import "fmt"

// Month is a calendar month, numbered 1 (January) through 12
// (December).
type Month uint8

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthLengths = [13]uint8{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [13]string{"", "January", "February", "March", "April",
	"May", "June", "July", "August", "September", "October", "November",
	"December"}

// Valid reports whether the month is in 1..=12.
func (m Month) Valid() bool { return m >= January && m <= December }

// Length returns the month's day count. There is no leap logic in any
// of the game calendars.
func (m Month) Length() uint8 {
	if !m.Valid() {
		return 0
	}
	return monthLengths[m]
}

// Name returns the English month name.
func (m Month) Name() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", uint8(m))
	}
	return monthNames[m]
}

// Next returns the following month, wrapping December to January.
func (m Month) Next() Month {
	if m == December {
		return January
	}
	return m + 1
}

func (m Month) String() string {
	return fmt.Sprintf("%d", uint8(m))
}
