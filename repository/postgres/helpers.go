package postgres

import "time"

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// stringArray normalizes nil slices so pgx binds an empty text[] instead of NULL.
func stringArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// clampLimit maps a non-positive limit to LIMIT NULL, i.e. no limit.
// Aggregation reads pass zero to see the full result set; pagination
// defaults are applied at the transport layer.
func clampLimit(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
