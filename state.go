package shell

import (
	"sync"
	"time"
)

// UiData is the UI thread's slice of the shared state.
type UiData struct {
	// ActiveFontFamily is the family index selected in the font picker.
	ActiveFontFamily int
	// ActiveFontFace is the face index within the selected family.
	ActiveFontFace int
	// ShowFontPicker toggles the font picker panel.
	ShowFontPicker bool
	// FramesDrawn counts completed UI frames.
	FramesDrawn uint64
}

// EngineData is the engine thread's slice of the shared state.
type EngineData struct {
	// Ticks counts completed engine iterations.
	Ticks uint64
	// LastTickAt is the wall-clock time of the most recent tick.
	LastTickAt time.Time
}

// ProgramData is the supervisor's slice of the shared state.
type ProgramData struct {
	// StartedAt is when the coordinator entered its supervise loop.
	StartedAt time.Time
	// QuitRequested is set once a quit message has been observed.
	QuitRequested bool
}

// State is the cross-thread application data. It is only ever reached
// through SharedState, never held directly by a thread.
type State struct {
	Ui      UiData
	Engine  EngineData
	Program ProgramData
}

// SharedState guards State with a single exclusive lock shared by all
// three threads. Readers and writers are not distinguished; any access
// takes the lock, and the lock is held only for the duration of one
// closure.
//
// A panic inside the closure does not poison the state: it is recovered,
// logged as a warning, and the lock is released with whatever the closure
// wrote so far kept in place. Losing this state would take the whole app
// down with it, so recovery beats strictness here.
type SharedState struct {
	mu    sync.Mutex
	state State
}

// NewSharedState creates an empty shared state.
func NewSharedState() *SharedState {
	return &SharedState{}
}

// WithLock acquires the lock, applies f to the state, and releases the
// lock. This is the only access path to the inner state.
func (s *SharedState) WithLock(f func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("recovered panic inside shared-state closure; state kept as written",
				"panic", r)
		}
	}()
	f(&s.state)
}

// Locked acquires the lock, applies f, and returns its result. Methods
// cannot be generic, so the typed-result variant is a package function.
func Locked[T any](s *SharedState, f func(*State) T) T {
	var out T
	s.WithLock(func(st *State) {
		out = f(st)
	})
	return out
}
