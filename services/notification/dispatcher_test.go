package notification

import (
	"sync"
	"testing"
)

func TestPushAfterStopDoesNotPanic(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	d.Start()
	d.Stop()

	// A cron tick racing shutdown lands here; it must decline, not panic on
	// a closed channel.
	if d.push(1) {
		t.Error("push accepted a row after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	d.Start()
	d.Stop()
	d.Stop()
}

func TestConcurrentPushDuringStop(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	// No Start: nothing consumes, so any accepted push just sits in the
	// buffer; the point is that no goroutine sends on a closed channel.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			d.push(id)
		}(uint(i))
	}
	go close(d.done) // stand in for the worker exiting
	d.Stop()
	wg.Wait()
}
