// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(200*time.Millisecond, func() { fired++ })

	c.Advance(199 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	c.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	c.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestFake_StopPreventsFire(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("Stop should report an active timer")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if c.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", c.PendingCount())
	}
}

func TestFake_DeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, 3) })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, 1) })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, 2) })
	c.Advance(time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v, want [1 2 3]", order)
	}
}

func TestFake_CallbackSchedulesTimer(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(100*time.Millisecond, func() {
		c.AfterFunc(50*time.Millisecond, func() { fired++ })
	})
	c.Advance(200 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("chained timer fired %d times, want 1", fired)
	}
}

func TestFake_Ticker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	c.Advance(10 * time.Millisecond)
	select {
	case <-ticker.C:
	default:
		t.Fatal("expected a tick")
	}

	c.Advance(5 * time.Millisecond)
	select {
	case <-ticker.C:
		t.Fatal("unexpected tick")
	default:
	}
}

func TestFake_AfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case got := <-c.After(0):
		if !got.Equal(epoch) {
			t.Errorf("got %v, want %v", got, epoch)
		}
	default:
		t.Fatal("After(0) should be ready immediately")
	}
}

func TestFake_WaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		<-c.After(time.Second)
		close(done)
	}()
	c.WaitForTimers(1)
	c.Advance(time.Second)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("goroutine did not observe advance")
	}
}

func TestFake_NowDuringCallbackIsDeadline(t *testing.T) {
	c := Fake(epoch)
	var seen time.Time
	c.AfterFunc(100*time.Millisecond, func() { seen = c.Now() })
	c.Advance(time.Second)
	if want := epoch.Add(100 * time.Millisecond); !seen.Equal(want) {
		t.Errorf("Now in callback = %v, want %v", seen, want)
	}
	if want := epoch.Add(time.Second); !c.Now().Equal(want) {
		t.Errorf("Now after Advance = %v, want %v", c.Now(), want)
	}
}
