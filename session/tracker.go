package session

import (
	"fmt"
	"log"
	"time"
)

// LevelProgress is the stored best result for one level.
type LevelProgress struct {
	BestTime     time.Duration
	BestAttempts int
	Completed    bool
}

// Tracker owns session progress: the active level, per-level bests and
// session totals. It loads from the store at construction and flushes on
// pause and level advance.
type Tracker struct {
	store      Store
	levelCount int

	current       int
	totalTime     time.Duration
	totalAttempts int
	perLevel      []LevelProgress

	// active run
	runStart    time.Time
	runElapsed  time.Duration
	runAttempts int
	running     bool
}

const (
	keyCurrentLevel  = "current_level"
	keyTotalTime     = "total_time_ms"
	keyTotalAttempts = "total_attempts"
)

func keyLevel(index int, field string) string {
	return fmt.Sprintf("level_%02d_%s", index, field)
}

// NewTracker loads persisted progress for levelCount levels.
func NewTracker(store Store, levelCount int) *Tracker {
	t := &Tracker{
		store:      store,
		levelCount: levelCount,
		current:    1,
		perLevel:   make([]LevelProgress, levelCount+1),
	}
	t.load()
	return t
}

func (t *Tracker) load() {
	if v, ok := t.store.GetInt(keyCurrentLevel); ok && v >= 1 && int(v) <= t.levelCount {
		t.current = int(v)
	}
	if v, ok := t.store.GetInt(keyTotalTime); ok {
		t.totalTime = time.Duration(v) * time.Millisecond
	}
	if v, ok := t.store.GetInt(keyTotalAttempts); ok {
		t.totalAttempts = int(v)
	}
	for i := 1; i <= t.levelCount; i++ {
		lp := &t.perLevel[i]
		if v, ok := t.store.GetInt(keyLevel(i, "best_time_ms")); ok {
			lp.BestTime = time.Duration(v) * time.Millisecond
		}
		if v, ok := t.store.GetInt(keyLevel(i, "best_attempts")); ok {
			lp.BestAttempts = int(v)
		}
		if v, ok := t.store.GetInt(keyLevel(i, "completed")); ok && v != 0 {
			lp.Completed = true
		}
	}
}

func (t *Tracker) save() {
	t.store.SetInt(keyCurrentLevel, int64(t.current))
	t.store.SetInt(keyTotalTime, t.totalTime.Milliseconds())
	t.store.SetInt(keyTotalAttempts, int64(t.totalAttempts))
	for i := 1; i <= t.levelCount; i++ {
		lp := t.perLevel[i]
		t.store.SetInt(keyLevel(i, "best_time_ms"), lp.BestTime.Milliseconds())
		t.store.SetInt(keyLevel(i, "best_attempts"), int64(lp.BestAttempts))
		completed := int64(0)
		if lp.Completed {
			completed = 1
		}
		t.store.SetInt(keyLevel(i, "completed"), completed)
	}
}

// CurrentLevel returns the 1-based active level index.
func (t *Tracker) CurrentLevel() int {
	return t.current
}

// SetCurrentLevel jumps the session to a level. Out-of-range indexes are
// ignored.
func (t *Tracker) SetCurrentLevel(index int) {
	if index >= 1 && index <= t.levelCount {
		t.current = index
	}
}

// TotalTime returns accumulated completion time across the session.
func (t *Tracker) TotalTime() time.Duration {
	return t.totalTime
}

// TotalAttempts returns the session-wide hole-fall count.
func (t *Tracker) TotalAttempts() int {
	return t.totalAttempts
}

// Level returns the stored progress for a level, or a zero value for an
// index out of range.
func (t *Tracker) Level(index int) LevelProgress {
	if index < 1 || index > t.levelCount {
		return LevelProgress{}
	}
	return t.perLevel[index]
}

// BeginRun starts the clock for the active level.
func (t *Tracker) BeginRun(now time.Time) {
	t.runStart = now
	t.runElapsed = 0
	t.runAttempts = 0
	t.running = true
}

// Pause freezes the run clock and flushes progress to the store.
func (t *Tracker) Pause(now time.Time) {
	if t.running {
		t.runElapsed += now.Sub(t.runStart)
		t.running = false
	}
	t.save()
	if err := t.store.Flush(); err != nil {
		// Progress stays in memory; the next flush retries.
		log.Printf("session: flush on pause: %v", err)
	}
}

// Resume restarts the run clock after a pause.
func (t *Tracker) Resume(now time.Time) {
	if !t.running {
		t.runStart = now
		t.running = true
	}
}

// FallInHole records one failed attempt on the active level.
func (t *Tracker) FallInHole() {
	t.runAttempts++
	t.totalAttempts++
}

// elapsed returns the run time up to now.
func (t *Tracker) elapsed(now time.Time) time.Duration {
	if !t.running {
		return t.runElapsed
	}
	return t.runElapsed + now.Sub(t.runStart)
}

// RunAttempts reports the falls recorded against the run in progress.
func (t *Tracker) RunAttempts() int {
	return t.runAttempts
}

// CompleteLevel finalizes the active run, updates the level's best on a
// first or strictly faster completion, accumulates totals and advances to
// the next level. The completing try counts as one attempt on top of the
// run's falls, so totalAttempts never drops below the number of completed
// levels. It returns the finished run's time. The updated state is
// flushed to the store.
func (t *Tracker) CompleteLevel(now time.Time) time.Duration {
	levelTime := t.elapsed(now)
	t.running = false
	t.runAttempts++
	t.totalAttempts++

	if t.current >= 1 && t.current <= t.levelCount {
		lp := &t.perLevel[t.current]
		if !lp.Completed || levelTime < lp.BestTime {
			lp.BestTime = levelTime
			lp.BestAttempts = t.runAttempts
		}
		lp.Completed = true
	}

	t.totalTime += levelTime

	if t.current < t.levelCount {
		t.current++
	}

	t.save()
	if err := t.store.Flush(); err != nil {
		log.Printf("session: flush on level advance: %v", err)
	}
	return levelTime
}

// AllCompleted reports whether every level has been finished at least once.
func (t *Tracker) AllCompleted() bool {
	for i := 1; i <= t.levelCount; i++ {
		if !t.perLevel[i].Completed {
			return false
		}
	}
	return t.levelCount > 0
}

// Rank grades the session. It is only defined once every level is
// completed; ok is false before that.
func (t *Tracker) Rank() (Rank, bool) {
	if !t.AllCompleted() {
		return "", false
	}
	return computeRank(t.totalTime, t.totalAttempts), true
}

// Reset clears all progress, in memory and in the store.
func (t *Tracker) Reset() error {
	t.current = 1
	t.totalTime = 0
	t.totalAttempts = 0
	t.perLevel = make([]LevelProgress, t.levelCount+1)
	t.running = false
	t.runElapsed = 0
	t.runAttempts = 0
	return t.store.Reset()
}
