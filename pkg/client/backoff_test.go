package client

import (
	"testing"
	"time"
)

func TestExponentialBackoff_Next(t *testing.T) {
	b := &ExponentialBackoff{
		Base:   50 * time.Millisecond,
		Max:    300 * time.Millisecond,
		Factor: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 50 * time.Millisecond},
		{0, 50 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{40, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := b.Next(tt.attempt); got != tt.want {
			t.Errorf("Next(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	b := DefaultBackoff()
	for i := 0; i < 100; i++ {
		got := b.Next(1)
		if got < 80*time.Millisecond || got > 120*time.Millisecond {
			t.Fatalf("Next(1) = %v, want within 100ms ±20%%", got)
		}
	}
}

func TestNoBackoff(t *testing.T) {
	if got := (NoBackoff{}).Next(3); got != 0 {
		t.Errorf("Next() = %v, want 0", got)
	}
}
