package app

import (
	"testing"
	"time"
)

func TestWokeFromSleep(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		gap  time.Duration
		want bool
	}{
		{"normal tick", time.Second, false},
		{"slow tick", 5 * time.Second, false},
		{"at threshold", 30 * time.Second, false},
		{"short suspend", 45 * time.Second, true},
		{"overnight sleep", 8 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wokeFromSleep(base, base.Add(tt.gap)); got != tt.want {
				t.Errorf("wokeFromSleep(gap=%v) = %v, want %v", tt.gap, got, tt.want)
			}
		})
	}
}
