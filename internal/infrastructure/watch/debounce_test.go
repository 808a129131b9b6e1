package watch

import (
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	type result struct {
		calls     int
		coalesced int
	}
	done := make(chan result, 1)

	var calls int
	d := newDebouncer(30*time.Millisecond, func(n int) {
		calls++
		done <- result{calls: calls, coalesced: n}
	})
	defer d.stop()

	for i := 0; i < 10; i++ {
		d.trigger()
	}

	select {
	case r := <-done:
		if r.calls != 1 {
			t.Errorf("expected a single coalesced call, got %d", r.calls)
		}
		if r.coalesced != 10 {
			t.Errorf("coalesced = %d, want 10", r.coalesced)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never fired")
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	fired := make(chan int, 1)
	d := newDebouncer(30*time.Millisecond, func(n int) { fired <- n })

	d.trigger()
	d.stop()

	select {
	case n := <-fired:
		t.Fatalf("callback fired after stop with %d pending", n)
	case <-time.After(100 * time.Millisecond):
	}
}
