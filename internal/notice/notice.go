package notice

import (
	"sort"
	"sync"
	"time"

	"github.com/cleared-dev/statementform/internal/model"
)

// DefaultDuration is how long a notice stays visible when not dismissed.
const DefaultDuration = 6 * time.Second

// Board tracks the transient success and error messages shown after an upload.
//
// Each kind has at most one active notice. A notice disappears after the board's
// display duration or when dismissed, whichever comes first. Showing a notice of a
// kind that is already active replaces it and restarts its timer.
type Board struct {
	mu       sync.Mutex
	duration time.Duration
	now      func() time.Time
	seq      uint64
	active   map[model.NoticeKind]*entry
}

type entry struct {
	notice model.Notice
	seq    uint64
	timer  *time.Timer
}

// NewBoard returns a Board whose notices expire after d. A non-positive d means DefaultDuration.
func NewBoard(d time.Duration) *Board {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Board{
		duration: d,
		now:      time.Now,
		active:   make(map[model.NoticeKind]*entry),
	}
}

// Duration returns the auto-dismiss interval.
func (b *Board) Duration() time.Duration { return b.duration }

// Show activates a notice of kind with message.
func (b *Board) Show(kind model.NoticeKind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked(kind)
	b.seq++
	e := &entry{
		notice: model.Notice{Kind: kind, Message: message, Shown: b.now()},
		seq:    b.seq,
	}
	seq := e.seq
	e.timer = time.AfterFunc(b.duration, func() { b.expire(kind, seq) })
	b.active[kind] = e
}

// Dismiss clears the notice of kind. It reports whether one was active.
func (b *Board) Dismiss(kind model.NoticeKind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopLocked(kind)
}

// Get returns the active notice of kind.
func (b *Board) Get(kind model.NoticeKind) (model.Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.active[kind]
	if !ok {
		return model.Notice{}, false
	}
	return e.notice, true
}

// Active returns all active notices, oldest first.
func (b *Board) Active() []model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := make([]*entry, 0, len(b.active))
	for _, e := range b.active {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]model.Notice, len(entries))
	for i, e := range entries {
		out[i] = e.notice
	}
	return out
}

// Latest returns the most recently shown active notice, the one that is meaningfully visible.
func (b *Board) Latest() (model.Notice, bool) {
	active := b.Active()
	if len(active) == 0 {
		return model.Notice{}, false
	}
	return active[len(active)-1], true
}

func (b *Board) expire(kind model.NoticeKind, seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// A replaced or dismissed notice has a different (or no) entry.
	if e, ok := b.active[kind]; ok && e.seq == seq {
		delete(b.active, kind)
	}
}

func (b *Board) stopLocked(kind model.NoticeKind) bool {
	e, ok := b.active[kind]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(b.active, kind)
	return true
}
