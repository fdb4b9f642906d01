package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). The upstream backend
// serves zone-less local datetimes; this dashboard treats them as IST.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ParseBackend parses the backend's zone-less datetime strings, which come at
// either second ("2025-11-24T14:30:00") or minute ("2025-11-24T14:30")
// precision.
func ParseBackend(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, IST)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", value, IST)
}

// FormatDisplay renders a backend datetime string for the UI, falling back to
// the raw value when it does not parse.
func FormatDisplay(value string) string {
	t, err := ParseBackend(value)
	if err != nil {
		return value
	}
	return t.Format(DisplayLayout)
}

// DisplayLayout is the human-readable IST format used across the dashboard.
const DisplayLayout = "02 Jan 2006, 3:04 PM"
