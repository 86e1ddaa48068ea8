package parse

import (
	"time"

	"github.com/tidwall/gjson"
)

// DateLayout is the calendar-day form used for grouping.
const DateLayout = "2006-01-02"

// epochMillisThreshold separates second and millisecond epochs: any
// value above it is taken as milliseconds (it is 1973 in ms and the
// year 5138 in seconds).
const epochMillisThreshold = 100_000_000_000

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// RFC3339 also accepts fractional seconds
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// ISO8601 without timezone
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// parseEpoch interprets a numeric timestamp as seconds or
// milliseconds depending on its magnitude.
func parseEpoch(n int64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n > epochMillisThreshold {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

// timeValue decodes a JSON timestamp field that may be either an
// ISO-8601 string or an epoch number.
func timeValue(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.String:
		return parseTimestamp(v.Str)
	case gjson.Number:
		return parseEpoch(v.Int())
	}
	return time.Time{}
}
