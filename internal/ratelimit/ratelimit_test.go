package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinBurst(t *testing.T) {
	l := New(1, 3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d: expected allow within burst", i)
		}
	}
	if l.Allow("key") {
		t.Fatal("expected fourth request to be denied once burst is exhausted")
	}
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New(100, 1, time.Minute)
	if !l.Allow("key") {
		t.Fatal("expected first request to be allowed")
	}
	if l.Allow("key") {
		t.Fatal("expected second immediate request to be denied")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("key") {
		t.Fatal("expected request to be allowed after refill")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New(1, 1, time.Minute)
	if !l.Allow("a") {
		t.Fatal("expected key a to be allowed")
	}
	if !l.Allow("b") {
		t.Fatal("expected key b to be allowed independently of key a")
	}
}

func TestReset(t *testing.T) {
	l := New(1, 1, time.Minute)
	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("expected key to be exhausted before reset")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Fatal("expected key to be allowed again after reset")
	}
}
