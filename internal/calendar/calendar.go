// Package calendar knows which dates the Taiwan Stock Exchange is open.
package calendar

import "time"

// Taipei is the exchange's time zone. Taiwan observes no daylight saving time.
var Taipei = time.FixedZone("CST", 8*60*60)

// fixedHolidays are national holidays on a fixed Gregorian date (MM-DD).
// Lunar holidays (New Year, Dragon Boat, Mid-Autumn) are not modeled; on those
// dates the exchange publishes no closes and the history join drops them anyway.
var fixedHolidays = map[string]struct{}{
	"01-01": {}, // Founding Day
	"02-28": {}, // Peace Memorial Day
	"04-04": {}, // Children's Day
	"05-01": {}, // Labor Day
	"10-10": {}, // National Day
}

// IsTradingDay reports whether d (interpreted in its own location) is a TWSE
// trading day: not a weekend and not a fixed national holiday.
func IsTradingDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := fixedHolidays[d.Format("01-02")]
	return !holiday
}

// TruncateToDate strips the clock part of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the current date in Taipei.
func Today(now time.Time) time.Time {
	return TruncateToDate(now.In(Taipei))
}
