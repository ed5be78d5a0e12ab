package instrument

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recording struct {
	calls   int
	elapsed time.Duration
	err     error
}

func (r *recording) record(elapsed time.Duration, err error) {
	r.calls++
	r.elapsed = elapsed
	r.err = err
}

func TestCall_Success(t *testing.T) {
	var rec recording

	err := Call(rec.record, func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.NoError(t, rec.err)
	assert.GreaterOrEqual(t, rec.elapsed, 5*time.Millisecond)
}

func TestCall_ErrorPassedThroughUnchanged(t *testing.T) {
	var rec recording
	sentinel := errors.New("connection refused")

	err := Call(rec.record, func() error { return sentinel })

	assert.Same(t, sentinel, err)
	assert.Equal(t, 1, rec.calls)
	assert.Same(t, sentinel, rec.err)
}

func TestCall_PanicRecordedAndReraised(t *testing.T) {
	var rec recording

	assert.PanicsWithValue(t, "boom", func() {
		_ = Call(rec.record, func() error { panic("boom") })
	})

	require.Equal(t, 1, rec.calls)
	var pe *PanicError
	require.ErrorAs(t, rec.err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.Equal(t, "panic: boom", pe.Error())
}
