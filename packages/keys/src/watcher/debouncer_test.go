package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("should run the last callback once", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var first, last atomic.Int32
		for i := 0; i < 5; i++ {
			d.Trigger(func() { first.Add(1) })
		}
		d.Trigger(func() { last.Add(1) })

		time.Sleep(100 * time.Millisecond)
		if first.Load() != 0 || last.Load() != 1 {
			t.Errorf("calls = %d replaced, %d last; want 0, 1", first.Load(), last.Load())
		}
	})

	t.Run("should cancel pending callbacks on stop", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var calls atomic.Int32
		d.Trigger(func() { calls.Add(1) })
		d.Stop()
		d.Trigger(func() { calls.Add(1) })

		time.Sleep(60 * time.Millisecond)
		if calls.Load() != 0 {
			t.Errorf("calls = %d, want 0", calls.Load())
		}
	})
}
