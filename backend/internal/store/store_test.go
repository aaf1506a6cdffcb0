package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "instavibe/backend/pkg/errors"
)

func TestNormalizeParams(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("PDT", -7*3600))

	got, err := NormalizeParams([]Param{
		StringParam("name", "Alice"),
		{Name: "limit", Type: ParamInt64, Value: 50},
		TimestampParam("since", ts),
		{Name: "lat", Type: ParamFloat64, Value: float32(1.5)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", got["name"])
	assert.Equal(t, int64(50), got["limit"])
	assert.Equal(t, ts.UTC(), got["since"])
	assert.Equal(t, float64(1.5), got["lat"])
}

func TestNormalizeParams_TypeMismatch(t *testing.T) {
	_, err := NormalizeParams([]Param{{Name: "limit", Type: ParamInt64, Value: "fifty"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidArgument))
	assert.Contains(t, err.Error(), "@limit")
}

func TestNormalizeParams_Duplicate(t *testing.T) {
	_, err := NormalizeParams([]Param{StringParam("id", "a"), StringParam("id", "b")})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidArgument))
}

func TestRowAccessors(t *testing.T) {
	now := time.Now()
	row := Row{"name": "Bob", "age": int64(28), "lat": 34.05, "at": now, "missing": nil}

	assert.Equal(t, "Bob", row.GetString("name"))
	assert.Equal(t, int64(28), row.GetInt64("age"))
	assert.Equal(t, 34.05, row.GetFloat64("lat"))
	assert.Equal(t, now, row.GetTime("at"))
	assert.Equal(t, "", row.GetString("missing"))
	assert.True(t, row.GetTime("nope").IsZero())
}
