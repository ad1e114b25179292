package lockoverride

import "time"

type State string

const (
	StateUnlocked State = "UNLOCKED"
	StateLocked   State = "LOCKED"
)

// Override is the singleton flag that keeps selections open past kickoff.
type Override struct {
	Enabled   bool
	UpdatedAt time.Time
}

// DerivedState is LOCKED once now reaches start. An unknown start never locks.
func DerivedState(start, now time.Time) State {
	if start.IsZero() || now.Before(start) {
		return StateUnlocked
	}
	return StateLocked
}

// EffectiveState applies the override on top of the derived state.
func EffectiveState(overrideEnabled bool, start, now time.Time) State {
	if overrideEnabled {
		return StateUnlocked
	}
	return DerivedState(start, now)
}
