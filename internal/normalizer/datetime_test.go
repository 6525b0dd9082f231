package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]time.Duration{
		"08:15":               8*time.Hour + 15*time.Minute,
		"23:59:30":            23*time.Hour + 59*time.Minute + 30*time.Second,
		"14h30":               14*time.Hour + 30*time.Minute,
		"0.5":                 12 * time.Hour,
		"45292.25":            6 * time.Hour,
		"08:30 - 09:00":       8*time.Hour + 30*time.Minute,
		"14":                  14 * time.Hour,
		"0":                   0,
		"7.0":                 7 * time.Hour,
		"2024-03-05 14:30":    14*time.Hour + 30*time.Minute,
		"05/03/2024 09:05:10": 9*time.Hour + 5*time.Minute + 10*time.Second,
	}
	for in, want := range cases {
		got, ok := parseClock(in)
		require.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "manhã", "-1", "25:00", "24", "45292", "2024", "NaN"} {
		_, ok := parseClock(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestParseDate(t *testing.T) {
	d, hasClock, ok := parseDate("05/03/2024")
	require.True(t, ok)
	assert.False(t, hasClock)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, hasClock, ok = parseDate("2024-03-05 17:20")
	require.True(t, ok)
	assert.True(t, hasClock)
	assert.Equal(t, 17, d.Hour())

	_, _, ok = parseDate("0.5")
	assert.False(t, ok, "a bare time fraction is not a date")

	_, _, ok = parseDate("ontem")
	assert.False(t, ok)
}

func TestResolveTimestamp(t *testing.T) {
	ts, date, clock := resolveTimestamp("05/03/2024", "19:45")
	require.NotNil(t, ts)
	assert.Equal(t, "2024-03-05", date)
	assert.Equal(t, "19:45", clock)

	ts, date, clock = resolveTimestamp("05/03/2024 07:10", "")
	require.NotNil(t, ts)
	assert.Equal(t, 7, ts.Hour())
	assert.Equal(t, "2024-03-05", date)
	assert.Equal(t, "07:10", clock)

	// 时间列里的小时数和完整日期时间
	ts, _, clock = resolveTimestamp("05/03/2024", "14")
	require.NotNil(t, ts)
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, "14:00", clock)

	ts, _, clock = resolveTimestamp("05/03/2024", "2024-03-05 14:30")
	require.NotNil(t, ts)
	assert.Equal(t, "14:30", clock)

	// 纯日期序列号不能当作 00:00
	ts, date, clock = resolveTimestamp("05/03/2024", "45356")
	assert.Nil(t, ts)
	assert.Equal(t, "2024-03-05", date)
	assert.Equal(t, "45356", clock)

	ts, date, clock = resolveTimestamp("sem data", "10:00")
	assert.Nil(t, ts)
	assert.Equal(t, "sem data", date)
	assert.Equal(t, "10:00", clock)
}
