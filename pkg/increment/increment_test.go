package increment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Increment
	}{
		{
			name:  "date fields are counts",
			input: "2021-01-01",
			want:  Increment{Years: 2021, Months: 1, Days: 1},
		},
		{
			name:  "time only",
			input: "01:02:03",
			want:  Increment{Hours: 1, Minutes: 2, Seconds: 3},
		},
		{
			name:  "full",
			input: "0000-00-01 12:00:00",
			want:  Increment{Days: 1, Hours: 12},
		},
		{
			name:  "a day as hours",
			input: "24:00:00",
			want:  Increment{Hours: 24},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"2021-01",
		"1:02:03",
		"2021-01-01T00:00:00",
		"1 day",
		"",
		" 01:00:00",
		"00:00:00",
		"0000-00-00",
		"0000-00-00 00:00:00",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidIncrement)

			var ierr *Error
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, in, ierr.Input)
		})
	}
}

func TestTotalSeconds(t *testing.T) {
	assert.Equal(t, int64(86400), MustParse("0000-00-01").TotalSeconds())
	assert.Equal(t, int64(30*86400), MustParse("0000-01-00").TotalSeconds())
	assert.Equal(t, int64(52*7*86400), MustParse("0001-00-00").TotalSeconds())
	assert.Equal(t, int64(3723), MustParse("01:02:03").TotalSeconds())
}

func TestTruncate_SameDay(t *testing.T) {
	day := MustParse("0000-00-01")

	a := day.Truncate(time.Date(2021, 1, 1, 5, 0, 0, 0, time.UTC))
	b := day.Truncate(time.Date(2021, 1, 1, 23, 0, 0, 0, time.UTC))

	assert.Equal(t, a, b)
	assert.True(t, a.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTruncate_OffsetInputsShareUTCBuckets(t *testing.T) {
	hour := MustParse("01:00:00")
	plus5 := time.FixedZone("+05:00", 5*3600)

	a := hour.Truncate(time.Date(2021, 1, 1, 15, 30, 0, 0, plus5))
	b := hour.Truncate(time.Date(2021, 1, 1, 10, 10, 0, 0, time.UTC))
	assert.Equal(t, a, b)
	assert.Equal(t, time.UTC, a.Location())
}

func TestTruncate_BeforeEpoch(t *testing.T) {
	hour := MustParse("01:00:00")
	got := hour.Truncate(time.Date(1969, 12, 31, 23, 30, 0, 0, time.UTC))
	assert.True(t, got.Equal(time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestRound(t *testing.T) {
	hour := MustParse("01:00:00")
	base := time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, hour.Round(base.Add(29*time.Minute)).Equal(base))
	assert.True(t, hour.Round(base.Add(30*time.Minute)).Equal(base.Add(time.Hour)))
	assert.True(t, hour.Round(base.Add(-1*time.Second)).Equal(base))

	odd := MustParse("00:00:03")
	assert.True(t, odd.Round(base.Add(1500*time.Millisecond)).Equal(base.Add(3*time.Second)))
	assert.True(t, odd.Round(base.Add(1499*time.Millisecond)).Equal(base))
}

func TestBucket(t *testing.T) {
	day := MustParse("0000-00-01")
	ts := time.Date(2021, 1, 1, 23, 0, 0, 0, time.UTC)

	assert.True(t, day.Bucket(ts, Truncate).Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, day.Bucket(ts, Nearest).Equal(time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestParseRounding(t *testing.T) {
	r, err := ParseRounding("")
	require.NoError(t, err)
	assert.Equal(t, Truncate, r)

	r, err = ParseRounding("nearest")
	require.NoError(t, err)
	assert.Equal(t, Nearest, r)
	assert.Equal(t, "nearest", r.String())

	_, err = ParseRounding("ceil")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "0000-00-01 02:03:04", Increment{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}.String())
}
