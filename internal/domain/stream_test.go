package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFeedEvent_Decode(t *testing.T) {
	raw := `{"route_id":"n1","code":"AB12CD34E","device_id":"kiosk-3","scanned_at":"2024-03-15T05:31:00+07:00"}`

	var ev ScanFeedEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, "n1", ev.RouteID)
	assert.Equal(t, "AB12CD34E", ev.Code)
	assert.Equal(t, "kiosk-3", ev.DeviceID)
	assert.Equal(t, 5, ev.Scanned.Hour())
}

func TestCheckInScope_Contains(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
	b := Booking{RouteID: "n1", Timestamp: time.Date(2024, 3, 15, 5, 30, 0, 0, loc)}

	assert.True(t, CheckInScope{RouteID: "n1", Day: day}.Contains(b, loc))
	assert.False(t, CheckInScope{RouteID: "m1", Day: day}.Contains(b, loc))
	assert.False(t, CheckInScope{RouteID: "n1", Day: day.AddDate(0, 0, 1)}.Contains(b, loc))
	assert.True(t, CheckInScope{All: true}.Contains(b, loc))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageTH, ParseLanguage("th"))
	assert.Equal(t, LanguageEN, ParseLanguage("de"))
	assert.Equal(t, LanguageEN, ParseLanguage(""))
}
