package util

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-10-10 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-10", d)

	_, err = ParseDate("2024/10/10")
	assert.Error(t, err)
	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestShiftDate(t *testing.T) {
	next, err := ShiftDate("2024-12-31", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", next)

	prev, err := ShiftDate("2024-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", prev)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "09:00", want: 9 * time.Hour},
		{in: "17:30:15", want: 17*time.Hour + 30*time.Minute + 15*time.Second},
		{in: "25:00", wantErr: true},
		{in: "nine", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTimeOfDayAndFormatDate(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	instant := time.Date(2024, 10, 9, 16, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-10-10", FormatDate(instant, seoul))
	assert.Equal(t, 90*time.Minute, TimeOfDay(instant, seoul))
	assert.Equal(t, 16*time.Hour+30*time.Minute, TimeOfDay(instant, time.UTC))
}

func TestParseDateTime(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	withZone, err := ParseDateTime("2024-10-10T16:00:00Z", seoul)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 10, 16, 0, 0, 0, time.UTC), withZone.UTC())

	local, err := ParseDateTime("2024-10-10 16:00", seoul)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 10, 7, 0, 0, 0, time.UTC), local.UTC())

	_, err = ParseDateTime("10/10/2024 4pm", seoul)
	assert.Error(t, err)
}
