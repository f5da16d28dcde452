// Package playback models one reading session's lifecycle: manual stepping,
// timed auto-advance at a words-per-minute rate, bookmarking, completion and
// opportunistic persistence of progress snapshots.
package playback

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"flowread-backend/internal/models"
)

type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// SnapshotStore receives progress snapshots. Write failures never interrupt
// playback; local state stays the source of truth until the next successful
// write.
type SnapshotStore interface {
	Update(ctx context.Context, id uuid.UUID, upd models.SessionUpdate) error
}

// Player drives a single reading session. It is not safe for concurrent use:
// one goroutine owns a player and serializes commands and ticks, which also
// guarantees ticks are strictly ordered.
type Player struct {
	clock    Clock
	store    SnapshotStore // nil disables persistence
	session  models.ReadingSession
	state    State
	timer    Timer
	lastTick time.Time
	bookmark int // word index, -1 when unset
}

// New wraps an existing session. A resumed session keeps its persisted
// words_read/time_spent totals; only the index and speed are primed for
// continued play.
func New(session models.ReadingSession, clock Clock, store SnapshotStore) *Player {
	session.SpeedWPM = models.ClampSpeed(session.SpeedWPM)
	state := StateIdle
	if session.Completed {
		state = StateCompleted
	}
	return &Player{
		clock:    clock,
		store:    store,
		session:  session,
		state:    state,
		bookmark: -1,
	}
}

// Session returns a copy of the current transient session state.
func (p *Player) Session() models.ReadingSession { return p.session }

func (p *Player) State() State { return p.state }

// Interval is the auto-advance period at the current speed: 60000/wpm ms.
func (p *Player) Interval() time.Duration {
	return time.Minute / time.Duration(p.session.SpeedWPM)
}

// TickC is the channel the owning loop selects on while playing. It is nil
// when no tick is scheduled, which blocks that select case.
func (p *Player) TickC() <-chan time.Time {
	if p.timer == nil {
		return nil
	}
	return p.timer.C()
}

// Play starts (or resumes) auto-advance. No-op once completed.
func (p *Player) Play() {
	if p.state == StatePlaying || p.state == StateCompleted {
		return
	}
	p.state = StatePlaying
	p.lastTick = p.clock.Now()
	if p.timer == nil {
		p.timer = p.clock.NewTimer(p.Interval())
	} else {
		p.timer.Reset(p.Interval())
	}
}

// Pause cancels the outstanding timer. The partial interval produces no tick.
func (p *Player) Pause() {
	if p.state != StatePlaying {
		return
	}
	p.state = StatePaused
	p.stopTimer()
}

// Tick performs one auto-advance: +1 word index, +1 words read, plus the
// wall-clock time elapsed since the previous tick. When the advance would
// run past the last word the session completes instead, a final snapshot is
// persisted and the clock halts. Ticks after completion are no-ops.
func (p *Player) Tick(ctx context.Context) {
	if p.state != StatePlaying {
		return
	}

	now := p.clock.Now()
	p.session.TimeSpent += now.Sub(p.lastTick).Seconds()
	p.lastTick = now
	p.session.WordsRead++

	if p.session.CurrentWordIndex >= p.session.TotalWords-1 {
		p.session.Completed = true
		p.state = StateCompleted
		p.stopTimer()
		p.Snapshot(ctx)
		return
	}

	p.session.CurrentWordIndex++
	p.timer.Reset(p.Interval())
}

// Step moves the index by delta (typically ±1), clamped to the document.
// Stepping never touches words_read or time_spent; those model time actually
// spent reading forward.
func (p *Player) Step(delta int) {
	if p.state == StateCompleted {
		return
	}
	idx := p.session.CurrentWordIndex + delta
	hi := p.session.TotalWords - 1
	if hi < 0 {
		hi = 0
	}
	if idx > hi {
		idx = hi
	}
	if idx < 0 {
		idx = 0
	}
	p.session.CurrentWordIndex = idx
}

// SetSpeed clamps wpm to [50,1000] and, while playing, reschedules the next
// tick at the new interval. The partial interval already elapsed is dropped
// from scheduling but still counted into time_spent on the next tick.
func (p *Player) SetSpeed(wpm int) {
	p.session.SpeedWPM = models.ClampSpeed(wpm)
	if p.state == StatePlaying {
		p.timer.Reset(p.Interval())
	}
}

// SetBookmark records the current index in the single bookmark slot,
// last write wins.
func (p *Player) SetBookmark() {
	p.bookmark = p.session.CurrentWordIndex
}

// JumpToBookmark returns the index to the stored bookmark and clears it.
// With no bookmark set it is a no-op and reports false.
func (p *Player) JumpToBookmark() bool {
	if p.bookmark < 0 {
		return false
	}
	p.session.CurrentWordIndex = p.bookmark
	p.bookmark = -1
	return true
}

// HasBookmark reports whether the bookmark slot is occupied.
func (p *Player) HasBookmark() bool { return p.bookmark >= 0 }

// ToggleBookmark is the reader control: store the current index when the
// slot is free, otherwise jump back and clear it.
func (p *Player) ToggleBookmark() (jumped bool) {
	if p.JumpToBookmark() {
		return true
	}
	p.SetBookmark()
	return false
}

// Snapshot pushes the current progress to the store. Idempotent and
// fail-soft: persistence errors are logged and playback continues.
func (p *Player) Snapshot(ctx context.Context) {
	if p.store == nil {
		return
	}
	s := p.session
	upd := models.SessionUpdate{
		CurrentWordIndex: &s.CurrentWordIndex,
		WordsRead:        &s.WordsRead,
		TimeSpent:        &s.TimeSpent,
		SpeedWPM:         &s.SpeedWPM,
		Completed:        &s.Completed,
	}
	if err := p.store.Update(ctx, s.ID, upd); err != nil {
		log.Printf("playback: snapshot for session %s failed: %v", s.ID, err)
	}
}

// Stop halts any scheduled tick and writes one final best-effort snapshot.
// Called when the reader navigates away.
func (p *Player) Stop(ctx context.Context) {
	if p.state == StatePlaying {
		p.state = StatePaused
	}
	p.stopTimer()
	p.Snapshot(ctx)
}

func (p *Player) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
