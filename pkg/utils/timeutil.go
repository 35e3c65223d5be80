package utils

import (
	"time"
)

// Eastern is the US Eastern time zone used by NYSE and Nasdaq.
var Eastern *time.Location

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		Eastern = time.FixedZone("EST", -5*60*60)
	}
}

// NowEastern returns the current time in US Eastern time.
func NowEastern() time.Time {
	return time.Now().In(Eastern)
}

// ToEastern converts a time.Time to US Eastern time.
func ToEastern(t time.Time) time.Time {
	return t.In(Eastern)
}

// MarketOpenTime returns the NYSE market opening time (9:30 AM ET) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, Eastern)
}

// MarketCloseTime returns the NYSE market closing time (4:00 PM ET) for a given date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(Eastern)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, Eastern)
}

// IsMarketOpen checks if the US equity market is currently open.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowEastern())
}

// IsMarketOpenAt checks if the US equity market would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(Eastern)

	// Check if it's a weekend
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	// Check if it's a trading holiday
	if IsTradingHoliday(t) {
		return false
	}

	// Check if within market hours (9:30 AM - 4:00 PM ET)
	open := MarketOpenTime(t)
	close := MarketCloseTime(t)

	return !t.Before(open) && !t.After(close)
}

// NextTradingDay returns the next trading day from the given date.
// If the given date is a trading day, it returns the next one.
func NextTradingDay(from time.Time) time.Time {
	next := from.In(Eastern).AddDate(0, 0, 1)
	for !IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PrevTradingDay returns the previous trading day from the given date.
func PrevTradingDay(from time.Time) time.Time {
	prev := from.In(Eastern).AddDate(0, 0, -1)
	for !IsTradingDay(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// IsTradingDay checks if the given date is a trading day (not weekend, not holiday).
func IsTradingDay(t time.Time) bool {
	t = t.In(Eastern)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !IsTradingHoliday(t)
}

// TradingDaysBetween returns the number of trading days between two dates (exclusive of end).
func TradingDaysBetween(start, end time.Time) int {
	start = start.In(Eastern)
	end = end.In(Eastern)
	count := 0
	current := start
	for current.Before(end) {
		if IsTradingDay(current) {
			count++
		}
		current = current.AddDate(0, 0, 1)
	}
	return count
}

// YearsToExpiry returns the time between asOf and the expiration date expressed
// in years, using calendar days over a 365-day year. The result is not floored:
// an expiration on or before asOf yields a non-positive value, which callers
// must reject before pricing — it is an input error, never a value to clamp.
func YearsToExpiry(expiry, asOf time.Time) float64 {
	days := expiry.Sub(asOf).Hours() / 24.0
	return days / 365.0
}

// IsTradingHoliday checks if the given date is a US full-day market holiday.
// This list should be updated annually.
func IsTradingHoliday(t time.Time) bool {
	t = t.In(Eastern)
	dateStr := t.Format("2006-01-02")

	_, isHoliday := nyseHolidays2026[dateStr]
	return isHoliday
}

// NYSE full-day holidays for 2026 (update annually).
// Source: NYSE published holiday calendar.
var nyseHolidays2026 = map[string]string{
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King, Jr. Day",
	"2026-02-16": "Washington's Birthday",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving Day",
	"2026-12-25": "Christmas Day",
}

// GetTradingHolidays returns all trading holidays for the current year.
func GetTradingHolidays() map[string]string {
	return nyseHolidays2026
}

// ParseDate parses a date string in "2006-01-02" format in US Eastern time.
func ParseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, Eastern)
}

// FormatDate formats a time.Time to "2006-01-02" in US Eastern time.
func FormatDate(t time.Time) string {
	return t.In(Eastern).Format("2006-01-02")
}

// FormatDateTime formats a time.Time to "2006-01-02 15:04:05 ET".
func FormatDateTime(t time.Time) string {
	return t.In(Eastern).Format("2006-01-02 15:04:05 ET")
}

// MarketStatus returns the current market status string.
func MarketStatus() string {
	now := NowEastern()

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}

	if IsTradingHoliday(now) {
		holiday := nyseHolidays2026[now.Format("2006-01-02")]
		return "CLOSED (" + holiday + ")"
	}

	open := MarketOpenTime(now)
	close := MarketCloseTime(now)

	switch {
	case now.Before(open):
		return "PRE-MARKET"
	case !now.After(close):
		return "OPEN"
	default:
		return "CLOSED"
	}
}
