package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/errors"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func TestSplitNorm_FullyInside(t *testing.T) {
	inNorm, outside, err := SplitNorm(at(8, 0), at(16, 0))
	require.NoError(t, err)
	assert.InDelta(t, 8.0, inNorm, 0.001)
	assert.InDelta(t, 0.0, outside, 0.001)
}

func TestSplitNorm_SpansBoundary(t *testing.T) {
	inNorm, outside, err := SplitNorm(at(16, 0), at(20, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, inNorm, 0.001)
	assert.InDelta(t, 3.0, outside, 0.001)
}

func TestSplitNorm_InvalidInterval(t *testing.T) {
	_, _, err := SplitNorm(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, errors.ErrInvalidInterval)
}

func TestSplitDayNight_SaturdaySplit(t *testing.T) {
	day, night, err := SplitDayNight(at(16, 0), at(20, 0))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, day, 0.001)
	assert.InDelta(t, 2.0, night, 0.001)
}

func TestSplitSundayNoon_Split(t *testing.T) {
	before, after, err := SplitSundayNoon(at(10, 0), at(14, 0))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, before, 0.001)
	assert.InDelta(t, 2.0, after, 0.001)
}

func TestBoundary_BeforeAfterSumsToTotal(t *testing.T) {
	start, end := at(9, 0), at(18, 30)
	before, after, err := SplitSundayNoon(start, end)
	require.NoError(t, err)
	totalMinutes := end.Sub(start).Minutes()
	assert.InDelta(t, totalMinutes, (before+after)*60, 0.001)
}
