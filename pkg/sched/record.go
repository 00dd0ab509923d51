package sched

import "sync"

// Recorder is an Observer that appends every event it sees to an in-memory
// trace and can persist it as a JSON-lines file. Attach one with
// WithObserver to turn a manually-driven Scheduler run into a replayable
// trace (see ReplayDriver).
type Recorder struct {
	mu    sync.Mutex
	trace []Event
	file  string
}

// NewRecorder creates a Recorder that will save to file on Save.
func NewRecorder(file string) *Recorder {
	return &Recorder{file: file}
}

// OnEvent implements Observer.
func (r *Recorder) OnEvent(e Event) {
	r.mu.Lock()
	r.trace = append(r.trace, e)
	r.mu.Unlock()
}

// Trace returns a copy of the events recorded so far.
func (r *Recorder) Trace() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.trace))
	copy(out, r.trace)
	return out
}

// Save writes the recorded trace to the Recorder's file.
func (r *Recorder) Save() error {
	r.mu.Lock()
	trace := make([]Event, len(r.trace))
	copy(trace, r.trace)
	r.mu.Unlock()
	return SaveTrace(r.file, trace)
}
