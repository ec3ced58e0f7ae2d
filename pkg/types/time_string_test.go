package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringValidate(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59"} {
		_, err := NewTimeStringFromString(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "9:30", "24:00", "12:60", "noon", "09:30:00"} {
		_, err := NewTimeStringFromString(s)
		assert.ErrorIs(t, err, ErrInvalidTimeString, s)
	}
}

func TestTimeStringAddMinutes(t *testing.T) {
	next, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), next)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeStringCompare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("12:00"))
	assert.False(t, TimeString("12:00").IsBefore("12:00"))
	assert.True(t, TimeString("12:01").IsAfter("12:00"))
}

func TestTimeStringOn(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)

	at, err := TimeString("09:15").On(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 6, 15, 0, 0, time.UTC), at.UTC())
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("09:00:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
