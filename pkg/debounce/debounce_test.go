package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDelay = 20 * time.Millisecond

func TestDebouncer_LastCallWins(t *testing.T) {
	d := New(testDelay)

	var calls int32
	var last atomic.Value
	for _, v := range []string{"B", "Be", "Bei"} {
		v := v
		d.Call(func() {
			atomic.AddInt32(&calls, 1)
			last.Store(v)
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Bei", last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_SeparateQuietPeriods(t *testing.T) {
	d := New(testDelay)

	var calls int32
	d.Call(func() { atomic.AddInt32(&calls, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	d.Call(func() { atomic.AddInt32(&calls, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	d := New(testDelay)

	var calls int32
	d.Call(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()
	d.Call(func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	d := New(time.Hour)

	var calls int32
	assert.False(t, d.Flush())

	d.Call(func() { atomic.AddInt32(&calls, 1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, d.Flush())
}

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, New(0).Delay())
	assert.Equal(t, 20*time.Millisecond, New(20*time.Millisecond).Delay())
}
