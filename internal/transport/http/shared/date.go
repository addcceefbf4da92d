package shared

import (
	"fmt"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParsePeriod validates a YYYY-MM period string and returns it normalized.
func ParsePeriod(value string) (string, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return "", fmt.Errorf("period must be in YYYY-MM format: %w", err)
	}
	return parsed.Format("2006-01"), nil
}
