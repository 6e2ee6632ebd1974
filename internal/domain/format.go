package domain

import (
	"fmt"
	"time"
)

// FormatDate renders t as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatRelativeTime renders how long ago t was relative to now:
// "just now", "N minutes ago", "N hours ago", "N days ago", and the
// plain date once it is 30 days or older.
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	secs := int(diff / time.Second)
	mins := secs / 60
	hours := mins / 60
	days := hours / 24

	switch {
	case secs < 60:
		return "just now"
	case mins < 60:
		return plural(mins, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 30:
		return plural(days, "day")
	default:
		return FormatDate(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
