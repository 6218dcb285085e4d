// Package haptics abstracts the device vibration surface. The server build
// has no motor to drive, so the default driver just records the events in
// the structured log for the presentation layer to pick up.
package haptics

import "log/slog"

// Driver receives haptic feedback events.
type Driver interface {
	// Pulse fires a single vibration of the given intensity.
	Pulse(intensity int)
	// Pattern fires a multi-step vibration sequence.
	Pattern(steps ...int)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Pulse(int)      {}
func (Nop) Pattern(...int) {}

// Logger writes haptic events to a slog.Logger at debug level.
type Logger struct {
	Log *slog.Logger
}

func (l Logger) Pulse(intensity int) {
	l.Log.Debug("haptic pulse", "intensity", intensity)
}

func (l Logger) Pattern(steps ...int) {
	l.Log.Debug("haptic pattern", "steps", steps)
}
