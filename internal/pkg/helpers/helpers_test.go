package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page, size  int
		returned    int
		wantPages   int
		wantHasMore bool
		wantSize    int
	}{
		{"first of three", 25, 1, 9, 9, 3, true, 9},
		{"last partial page", 25, 3, 9, 7, 3, false, 9},
		{"exact fit", 20, 2, 10, 10, 2, false, 10},
		{"empty result", 0, 1, 10, 0, 0, false, 10},
		{"beyond the end", 5, 4, 10, 0, 1, false, 10},
		{"size capped", 120, 1, 500, 50, 3, true, 50},
		{"default size", 12, 1, 0, 10, 2, true, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationInfo(tt.total, tt.page, tt.size, tt.returned)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantHasMore, p.HasMore)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 9)
	assert.Equal(t, uint64(18), offset)
	assert.Equal(t, uint64(9), limit)

	offset, limit = CalculateOffsetLimit(2, 80)
	assert.Equal(t, uint64(50), offset)
	assert.Equal(t, uint64(50), limit)
}

func TestDateWindow(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	now := time.Date(2026, time.January, 31, 15, 30, 0, 0, loc)
	sod := time.Date(2026, time.January, 31, 0, 0, 0, 0, loc)

	start, end, ok := DateWindow("today", now, loc)
	require.True(t, ok)
	assert.True(t, start.Equal(sod))
	assert.True(t, end.Equal(sod.Add(24*time.Hour)))

	lateToday := time.Date(2026, time.January, 31, 23, 59, 0, 0, loc)
	earlyTomorrow := time.Date(2026, time.February, 1, 0, 1, 0, 0, loc)
	assert.True(t, !lateToday.Before(start) && lateToday.Before(end))
	assert.False(t, earlyTomorrow.Before(end))

	start, end, ok = DateWindow("tomorrow", now, loc)
	require.True(t, ok)
	assert.True(t, start.Equal(sod.AddDate(0, 0, 1)))
	assert.True(t, end.Equal(sod.AddDate(0, 0, 2)))

	_, end, ok = DateWindow("week", now, loc)
	require.True(t, ok)
	assert.True(t, end.Equal(sod.AddDate(0, 0, 7)))

	// calendar month from Jan 31 normalises past February
	_, end, ok = DateWindow("month", now, loc)
	require.True(t, ok)
	assert.True(t, end.Equal(time.Date(2026, time.March, 3, 0, 0, 0, 0, loc)))

	_, _, ok = DateWindow("yesterday", now, loc)
	assert.False(t, ok)
}

func TestStartOfDay_ConvertsIntoLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	utc := time.Date(2026, time.June, 10, 2, 0, 0, 0, time.UTC) // June 9, 22:00 in New York

	sod := StartOfDay(utc, loc)
	assert.Equal(t, 9, sod.Day())
	assert.Equal(t, 0, sod.Hour())
	assert.Equal(t, loc, sod.Location())
}
