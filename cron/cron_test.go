package cron

import (
	"testing"
	"time"
)

func TestReminderWindowsTileWithoutOverlap(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// An appointment an hour out must fall in exactly one tick's window,
	// however the scheduler's seconds drift within each minute.
	appointmentAt := base.Add(59*time.Minute + 30*time.Second)

	for _, drift := range []time.Duration{0, 3 * time.Second, 17 * time.Second, 59 * time.Second} {
		matches := 0
		for minute := 0; minute < 120; minute++ {
			tick := base.Add(time.Duration(minute)*time.Minute + drift)
			start, end := reminderWindow(tick)
			if !appointmentAt.Before(start) && appointmentAt.Before(end) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("drift %v: appointment matched %d ticks, want 1", drift, matches)
		}
	}
}

func TestReminderWindowIsOneHourOut(t *testing.T) {
	tick := time.Date(2025, 3, 1, 12, 0, 42, 0, time.UTC)
	start, end := reminderWindow(tick)

	if want := time.Date(2025, 3, 1, 12, 59, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("window start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("window end = %v, want %v", end, want)
	}
	if end.Sub(start) != time.Minute {
		t.Errorf("window width = %v, want 1m", end.Sub(start))
	}
}
