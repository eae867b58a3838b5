package session

// Frame timing constants. A dt outside (0, acceptWindowSec) means the
// simulator reset, paused, or replayed a frame and must not pollute the
// average. The seed threshold detects a zero-initialized average so the first
// good sample lands directly instead of warming up from zero.
const (
	acceptWindowSec  = 0.1
	seedThresholdSec = 1e-6
	smoothingWeight  = 0.02
)

// FrameTiming tracks the simulator's physics clock and derives a smoothed
// inter-frame duration. Not safe for concurrent use; the owning session
// serializes access.
type FrameTiming struct {
	lastPhysicsTimeSec float64
	smoothedDtSec      float64
	socketFrames       uint64
}

// Observe feeds one physics-time sample. The dt against the previous sample
// is folded into the moving average only when it falls inside the accept
// window; the last-seen clock and the socket frame counter always advance so
// a reset simulator re-synchronizes on the next frame.
func (f *FrameTiming) Observe(physicsTimeSec float64) {
	dt := physicsTimeSec - f.lastPhysicsTimeSec
	if dt > 0 && dt < acceptWindowSec {
		if f.smoothedDtSec < seedThresholdSec {
			f.smoothedDtSec = dt
		} else {
			f.smoothedDtSec = f.smoothedDtSec*(1-smoothingWeight) + dt*smoothingWeight
		}
	}
	f.lastPhysicsTimeSec = physicsTimeSec
	f.socketFrames++
}

// AverageFrameTime returns the smoothed inter-frame duration in seconds.
// Zero until the first accepted sample.
func (f *FrameTiming) AverageFrameTime() float64 {
	return f.smoothedDtSec
}

// LastPhysicsTime returns the most recent physics-time sample in seconds.
func (f *FrameTiming) LastPhysicsTime() float64 {
	return f.lastPhysicsTimeSec
}

// SocketFrames returns how many samples have been observed.
func (f *FrameTiming) SocketFrames() uint64 {
	return f.socketFrames
}
