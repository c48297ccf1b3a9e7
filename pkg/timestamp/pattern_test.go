package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Format(t *testing.T) {
	ts := time.Date(2021, 6, 1, 10, 4, 5, 0, time.UTC)

	assert.Equal(t, "2021/06/01", NewPattern("%Y/%m/%d").Format(ts))
	assert.Equal(t, "2021/06/01", NewPattern("2006/01/02").Format(ts))
	assert.Equal(t, "10:04:05", NewPattern("%H:%M:%S").Format(ts))
}

func TestPattern_ParseRoundTrip(t *testing.T) {
	loc := time.FixedZone("+01:00", 3600)
	ts := time.Date(2021, 6, 1, 10, 4, 5, 0, loc)

	for _, raw := range []string{"%Y-%m-%d %H:%M:%S %z", time.RFC3339} {
		p := NewPattern(raw)
		got, err := p.Parse(p.Format(ts), nil)
		require.NoError(t, err, raw)
		assert.True(t, got.Equal(ts), raw)
	}
}

func TestPattern_IsZero(t *testing.T) {
	assert.True(t, Pattern{}.IsZero())
	assert.True(t, NewPattern("").IsZero())
	assert.False(t, NewPattern("2006").IsZero())
	assert.Equal(t, "2006", NewPattern("2006").String())
}
