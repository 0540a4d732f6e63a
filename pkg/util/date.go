package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// NextBusinessDay returns the first weekday strictly after t.
func NextBusinessDay(t time.Time) time.Time {
    d := t.AddDate(0, 0, 1)
    for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
        d = d.AddDate(0, 0, 1)
    }
    return d
}

// BusinessDaysAfter lists the next n weekdays strictly after t, in order.
func BusinessDaysAfter(t time.Time, n int) []time.Time {
    out := make([]time.Time, 0, n)
    d := t
    for len(out) < n {
        d = NextBusinessDay(d)
        out = append(out, d)
    }
    return out
}
