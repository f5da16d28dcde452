package playback

import "time"

// Clock abstracts wall-clock time and timer scheduling so playback can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is a single-shot timer. The player re-arms it after every tick from
// the current wall-clock "now", so scheduling jitter never accumulates.
type Timer interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type wallClock struct{}

// NewWallClock returns the real-time Clock used outside of tests.
func NewWallClock() Clock { return wallClock{} }

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) NewTimer(d time.Duration) Timer {
	return &wallTimer{t: time.NewTimer(d)}
}

type wallTimer struct {
	t *time.Timer
}

func (w *wallTimer) C() <-chan time.Time { return w.t.C }

func (w *wallTimer) Reset(d time.Duration) {
	w.Stop()
	w.t.Reset(d)
}

func (w *wallTimer) Stop() {
	if !w.t.Stop() {
		select {
		case <-w.t.C:
		default:
		}
	}
}

// ManualClock is a test clock whose time only moves when Advance is called.
// Its timers never fire on their own; tests invoke Tick directly.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time { return m.now }

func (m *ManualClock) Advance(d time.Duration) { m.now = m.now.Add(d) }

func (m *ManualClock) NewTimer(d time.Duration) Timer { return &manualTimer{} }

type manualTimer struct{}

func (m *manualTimer) C() <-chan time.Time    { return nil }
func (m *manualTimer) Reset(d time.Duration)  {}
func (m *manualTimer) Stop()                  {}
