package lockoverride

import (
	"testing"
	"time"
)

func TestEffectiveState(t *testing.T) {
	start := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		override bool
		start    time.Time
		now      time.Time
		want     State
	}{
		{"before start", false, start, start.Add(-time.Minute), StateUnlocked},
		{"at start", false, start, start, StateLocked},
		{"after start", false, start, start.Add(time.Hour), StateLocked},
		{"override after start", true, start, start.Add(time.Hour), StateUnlocked},
		{"unknown start", false, time.Time{}, start, StateUnlocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveState(tc.override, tc.start, tc.now); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
