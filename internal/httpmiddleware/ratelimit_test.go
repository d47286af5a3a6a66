package httpmiddleware

import (
	"testing"
	"time"
)

func TestAllowEnforcesCapacity(t *testing.T) {
	l := NewTokenBucket(3, 60)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4", now) {
			t.Fatalf("expected request %d allowed", i+1)
		}
	}
	if l.allow("1.2.3.4", now) {
		t.Fatal("expected request over capacity blocked")
	}
	// Another client has its own bucket.
	if !l.allow("5.6.7.8", now) {
		t.Fatal("expected other client unaffected")
	}
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := NewTokenBucket(2, 60)
	now := time.Now()

	l.allow("1.2.3.4", now)
	l.allow("1.2.3.4", now)
	if l.allow("1.2.3.4", now) {
		t.Fatal("expected bucket drained")
	}
	// 60/min refills one token per second.
	if !l.allow("1.2.3.4", now.Add(2*time.Second)) {
		t.Fatal("expected refill after waiting")
	}
}

func TestIdleBucketsEvicted(t *testing.T) {
	l := NewTokenBucket(1, 60)
	now := time.Now()

	l.allow("1.2.3.4", now)
	l.allow("5.6.7.8", now)
	if len(l.state) != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", len(l.state))
	}

	// A request past the sweep deadline drops everything idle that long.
	l.allow("9.9.9.9", now.Add(idleEviction+time.Minute))
	if len(l.state) != 1 {
		t.Fatalf("expected idle buckets evicted, got %d", len(l.state))
	}
	if _, ok := l.state["9.9.9.9"]; !ok {
		t.Fatal("expected the live client kept")
	}
}
