// Package control builds the 12-channel control vectors the exchange loop
// sends each cycle. Values are normalized to [0, 1]; channels 0, 1 and 3 are
// the roll/pitch/yaw sticks (mid-stick 0.5), channel 2 is throttle.
package control

import (
	"github.com/flight-control/fcc/internal/telemetry"
)

// Neutral returns the safe control vector: sticks centered, throttle closed,
// aux channels off. Sent once before shutdown so the vehicle is not left
// holding the last commanded inputs.
func Neutral() []float64 {
	v := make([]float64, telemetry.ChannelCount)
	v[0] = 0.5
	v[1] = 0.5
	v[3] = 0.5
	return v
}

// Manual builds the next control vector by passing the received transmitter
// channels (rcin0..rcin11) straight back to the simulator, clamped to the
// wire range. This is the manual flight mode: the pilot's own transmitter
// drives the vehicle through the container.
func Manual(store *telemetry.Store) []float64 {
	v := make([]float64, telemetry.ChannelCount)
	for i := range v {
		f, err := store.Float(telemetry.ChannelTag(i))
		if err != nil {
			// Channel tags are part of the fixed vocabulary; an error
			// here is a programming bug, but a neutral value is the
			// safe fallback for a control output.
			continue
		}
		v[i] = f
	}
	return Clamp(v)
}

// Clamp limits every channel to [0, 1].
func Clamp(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		switch {
		case x < 0:
			out[i] = 0
		case x > 1:
			out[i] = 1
		default:
			out[i] = x
		}
	}
	return out
}
