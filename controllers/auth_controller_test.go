package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	night := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	nextDay := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)

	assert.True(t, isSameDay(morning, night))
	assert.False(t, isSameDay(night, nextDay))
}

func TestIsYesterday(t *testing.T) {
	today := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)

	assert.True(t, isYesterday(time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local), today))
	assert.False(t, isYesterday(time.Date(2025, 3, 9, 14, 0, 0, 0, time.Local), today))
	assert.False(t, isYesterday(time.Date(2025, 3, 11, 1, 0, 0, 0, time.Local), today))
}

func TestIsYesterdayAcrossSpringForward(t *testing.T) {
	// 2025-03-09 is a 23-hour day in US Eastern; a streak continued on the
	// following midnight must still see it as yesterday.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	lastLogin := time.Date(2025, 3, 9, 9, 0, 0, 0, loc)

	assert.True(t, isYesterday(lastLogin, today))
}
