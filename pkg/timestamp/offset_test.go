package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOffset(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    int
		wantErr bool
	}{
		{name: "colon east", token: "+05:30", want: 5*3600 + 30*60},
		{name: "colon west", token: "-08:00", want: -8 * 3600},
		{name: "compact east", token: "+0100", want: 3600},
		{name: "compact west", token: "-0345", want: -(3*3600 + 45*60)},
		{name: "zero", token: "+00:00", want: 0},
		{name: "upper hour bound", token: "+19:59", want: 19*3600 + 59*60},
		{name: "empty", token: "", wantErr: true},
		{name: "no sign", token: "05:30", wantErr: true},
		{name: "single digit hour", token: "+5:30", wantErr: true},
		{name: "hour out of pattern", token: "+20:00", wantErr: true},
		{name: "name", token: "UTC", wantErr: true},
		{name: "trailing garbage", token: "+05:30x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOffset(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimezone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("+02:00")
	require.NoError(t, err)
	_, offset := time.Date(2021, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7200, offset)

	loc, err = ResolveLocation("-0000")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestResolveLocationOrUTC(t *testing.T) {
	loc, err := ResolveLocationOrUTC("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = ResolveLocationOrUTC("bogus")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}
