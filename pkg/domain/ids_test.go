package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "impulsa/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseUserID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(raw), id)
		assert.Equal(t, raw.String(), id.String())
	})
}

func TestParseSlugIDs(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		id, err := ParseMissionID("  pitch-101 ")
		require.NoError(t, err)
		assert.Equal(t, MissionID("pitch-101"), id)
	})

	t.Run("rejects blank", func(t *testing.T) {
		_, err := ParseTargetID("   ")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized", func(t *testing.T) {
		_, err := ParseBadgeID(strings.Repeat("b", maxSlugLength+1))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestCalendarDay(t *testing.T) {
	guayaquil := time.FixedZone("ECT", -5*3600)

	t.Run("uses the local calendar date", func(t *testing.T) {
		// 02:00 UTC on the 2nd is still the 1st in Guayaquil.
		ts := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), CalendarDay(ts, guayaquil))
	})

	t.Run("nil location is UTC", func(t *testing.T) {
		ts := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), CalendarDay(ts, nil))
	})

	t.Run("days between", func(t *testing.T) {
		a := CalendarDay(time.Date(2025, 2, 27, 18, 0, 0, 0, time.UTC), nil)
		b := CalendarDay(time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC), nil)
		assert.Equal(t, 2, DaysBetween(a, b))
		assert.Equal(t, -2, DaysBetween(b, a))
	})
}

func TestUserIDJSON(t *testing.T) {
	userID := NewUserID()

	data, err := json.Marshal(map[string]UserID{"user_id": userID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"`+userID.String()+`"}`, string(data))

	var decoded map[string]UserID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, userID, decoded["user_id"])
}
