package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-Z]{9}$`)
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		id := NewBookingID()
		require.Regexp(t, pattern, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNormalizeBookingID(t *testing.T) {
	assert.Equal(t, "AB12CD34E", NormalizeBookingID("  ab12cd34e\n"))

	assert.True(t, IsBookingID(NormalizeBookingID("ab12cd34e")))
	assert.False(t, IsBookingID("HELLO-WORLD"))
	assert.False(t, IsBookingID("AB12CD34"))
	assert.False(t, IsBookingID("ab12cd34e"))
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	// 2024-03-14 20:30 UTC = 2024-03-15 03:30 Bangkok
	ts := time.Date(2024, 3, 14, 20, 30, 0, 0, time.UTC)
	start, end := DayBounds(ts, loc)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, loc), end)
	assert.True(t, SameDay(ts, start, loc))
	assert.False(t, SameDay(ts, start.Add(-time.Minute), loc), "23:59 of the previous Bangkok day")

	// 2024-03-15 00:30 UTC: another UTC day, same Bangkok day
	later := ts.Add(4 * time.Hour)
	assert.True(t, SameDay(ts, later, loc))
	assert.False(t, SameDay(ts, later, time.UTC))
	assert.Equal(t, "2024-03-15", FormatDay(ts, loc))
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	d, err := ParseDate("2024-03-15", loc)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, loc, d.Location())

	_, err = ParseDate("15/03/2024", loc)
	assert.Error(t, err)
}

func TestHaversineDistance(t *testing.T) {
	// Bangkok - Pattaya, около 100 км
	d := HaversineDistance(13.7563, 100.5018, 12.9236, 100.8825)
	assert.InDelta(t, 101, d, 5)
	assert.Zero(t, HaversineDistance(13.7, 100.5, 13.7, 100.5))
}

func TestStationGeohash(t *testing.T) {
	hash := StationGeohash(13.7563, 100.5018)
	assert.Len(t, hash, 7)
	assert.Equal(t, "w4rqqbr", hash)

	cells := GeohashNeighbors(hash)
	assert.Len(t, cells, 9)
	assert.Equal(t, hash, cells[0])
}
