package shared

import "time"

// ParseDate accepts the plain YYYY-MM-DD form used throughout the leave API,
// falling back to RFC3339 for callers that send full timestamps. Empty input
// parses to the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
