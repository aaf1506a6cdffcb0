package store

import "time"

// GetString returns the column as a string, or "" when absent or NULL
func (r Row) GetString(col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

// GetInt64 returns the column as an int64, or 0
func (r Row) GetInt64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}

// GetFloat64 returns the column as a float64, or 0
func (r Row) GetFloat64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// GetTime returns the column as a time.Time, or the zero time
func (r Row) GetTime(col string) time.Time {
	if t, ok := r[col].(time.Time); ok {
		return t
	}
	return time.Time{}
}
