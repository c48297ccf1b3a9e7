package aggregator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datetimeagg/dta/pkg/timestamp"
)

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestSplit_SameTargetInArrivalOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("%Y/%m/%d.log"), 0, nil)
	require.NoError(t, err)

	result := feed(t, agg,
		rec(1*time.Hour, "first"),
		rec(25*time.Hour, "other day"),
		rec(2*time.Hour, "second"),
	)

	assert.Equal(t, []string{"2021/01/01.log", "2021/01/02.log"}, result.Targets)
	assert.Equal(t, "first\nsecond\n", readFile(t, fs, "/out/2021/01/01.log"))
	assert.Equal(t, "other day\n", readFile(t, fs, "/out/2021/01/02.log"))
}

func TestSplit_GoLayoutTemplate(t *testing.T) {
	fs := afero.NewMemMapFs()
	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("2006-01-02T15.txt"), 0, nil)
	require.NoError(t, err)

	result := feed(t, agg, rec(90*time.Minute, "x"))
	assert.Equal(t, []string{"2021-01-01T01.txt"}, result.Targets)
	assert.Equal(t, "x\n", readFile(t, fs, "/out/2021-01-01T01.txt"))
}

func TestSplit_EvictionReopensForAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("%H.log"), 1, nil)
	require.NoError(t, err)

	result := feed(t, agg,
		rec(0, "a1"),
		rec(time.Hour, "b1"),
		rec(time.Minute, "a2"),
		rec(time.Hour+time.Minute, "b2"),
	)

	assert.Equal(t, []string{"00.log", "01.log"}, result.Targets)
	assert.Equal(t, "a1\na2\n", readFile(t, fs, filepath.Join("/out", "00.log")))
	assert.Equal(t, "b1\nb2\n", readFile(t, fs, filepath.Join("/out", "01.log")))
}

func TestSplit_AppendsToExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/00.log", []byte("earlier\n"), 0o644))

	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("%H.log"), 0, nil)
	require.NoError(t, err)
	feed(t, agg, rec(0, "later"))

	assert.Equal(t, "earlier\nlater\n", readFile(t, fs, "/out/00.log"))
}

func TestSplit_Empty(t *testing.T) {
	agg, err := NewSplit(afero.NewMemMapFs(), "/out", timestamp.NewPattern("%H.log"), 0, nil)
	require.NoError(t, err)

	result := feed(t, agg)
	assert.Empty(t, result.Targets)
	assert.True(t, result.Empty())
}

func TestSplit_RequiresTemplate(t *testing.T) {
	_, err := NewSplit(afero.NewMemMapFs(), "/out", timestamp.Pattern{}, 0, nil)
	assert.Error(t, err)
}

func TestSplit_StorageError(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("%H.log"), 0, nil)
	require.NoError(t, err)

	err = agg.Update(context.Background(), rec(0, "x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "mkdir", serr.Op)
	assert.Equal(t, "/out", serr.Path)
}

func TestSplit_AbortKeepsWrittenData(t *testing.T) {
	fs := afero.NewMemMapFs()
	agg, err := NewSplit(fs, "/out", timestamp.NewPattern("%Y-%m-%d.log"), 0, nil)
	require.NoError(t, err)

	require.NoError(t, agg.Update(context.Background(), rec(time.Hour, "kept")))
	require.NoError(t, Abort(agg))
	assert.Equal(t, 0, agg.files.Len())
	assert.Equal(t, "kept\n", readFile(t, fs, "/out/2021-01-01.log"))
}

func TestAbort_NoStorage(t *testing.T) {
	assert.NoError(t, Abort(NewCount()))
}
