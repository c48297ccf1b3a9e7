package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_TrimsLineTerminator(t *testing.T) {
	ts := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)

	r := New(ts, []byte("hello\r\n"))
	assert.Equal(t, "hello", r.String())
	assert.Equal(t, 5, r.Size())
	assert.True(t, r.Timestamp.Equal(ts))
}

func TestClone_DoesNotShareRaw(t *testing.T) {
	raw := []byte("payload")
	r := New(time.Unix(0, 0), raw)
	c := r.Clone()

	raw[0] = 'P'
	assert.Equal(t, "Payload", r.String())
	assert.Equal(t, "payload", c.String())
}
