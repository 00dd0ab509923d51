package sched

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// pollInterval is the busy-poll granularity for WaitUntilStatus,
// WaitUntilOneStatus, and WaitUntilLocked. Polling (rather than condvar
// signaling) is deliberate: WaitingExternal is entered while the worker is
// already on its way into a blocking external call the Scheduler does not
// own, so there is no convenient point inside that call to signal from.
var pollInterval = time.Millisecond

// SchedulerError reports a misuse of the Scheduler API: an out-of-range
// worker index. Passing more indices than the Scheduler's arity also panics,
// with a plain message string rather than a SchedulerError. These are
// programming errors, not protocol errors; the core has no recoverable error
// surface, so these panic rather than return.
type SchedulerError struct {
	Op    string
	Index int
	N     int
}

func (e *SchedulerError) Error() string {
	return fmt.Sprintf("sched: %s: index %d out of range [0,%d)", e.Op, e.Index, e.N)
}

// Scheduler owns a fixed set of WorkerContexts and workers and presents the
// driver-side API for multiplexing them. Its arity is fixed at New and never
// changes; it is not safe to copy after construction since its workers hold
// pointers into it.
type Scheduler struct {
	id       uuid.UUID
	contexts []*WorkerContext
	workers  []*worker
	observer Observer
	debug    func(format string, args ...any)
}

// Option configures a Scheduler at construction.
type Option func(*Scheduler)

// WithObserver attaches an Observer that is notified of every tick, yield,
// lock, and finish event as it happens.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// New constructs a Scheduler with one worker per body, in order: N =
// len(bodies) is the arity for the lifetime of this Scheduler. Every
// worker's goroutine is live on return, parked inside its context's
// awaitStart.
func New(bodies []Body, opts ...Option) *Scheduler {
	s := &Scheduler{id: uuid.New()}
	for _, opt := range opts {
		opt(s)
	}
	s.contexts = make([]*WorkerContext, len(bodies))
	s.workers = make([]*worker, len(bodies))
	for i, body := range bodies {
		ctx := newWorkerContext(i)
		s.contexts[i] = ctx
		s.workers[i] = newWorker(ctx, body)
	}
	return s
}

// ID is this Scheduler's run identifier, used to tag CLI output so runs can
// be told apart. It is not written into trace files.
func (s *Scheduler) ID() uuid.UUID { return s.id }

// N is this Scheduler's fixed arity.
func (s *Scheduler) N() int { return len(s.workers) }

// SetDebugLog installs a hook called with a one-line note whenever a tick is
// ignored because the worker was WaitingExternal. Nil (the default)
// disables it.
func (s *Scheduler) SetDebugLog(f func(format string, args ...any)) {
	s.debug = f
}

func (s *Scheduler) checkIndices(op string, indices []int) {
	if len(indices) > len(s.workers) {
		panic(fmt.Sprintf("sched: %s: %d indices given, arity is %d", op, len(indices), len(s.workers)))
	}
	for _, i := range indices {
		if i < 0 || i >= len(s.workers) {
			panic(&SchedulerError{Op: op, Index: i, N: len(s.workers)})
		}
	}
}

func (s *Scheduler) emit(e Event) {
	if s.observer != nil {
		s.observer.OnEvent(e)
	}
}

// Proceed ticks each listed worker. Side effects are unordered across the
// listed workers; the only ordering guarantee is that each individual
// tick(i) happens-before that worker's next resumed instruction.
func (s *Scheduler) Proceed(indices ...int) {
	s.checkIndices("Proceed", indices)
	for _, i := range indices {
		s.workers[i].tick(s.debug)
		s.emit(Event{Index: i, Kind: KindTick, Status: s.contexts[i].getStatus()})
	}
}

// Wait blocks, in argument order, until each listed worker yields (its
// status leaves Running). Actual completion order is determined by the
// workers themselves, not by the order indices are listed here.
func (s *Scheduler) Wait(indices ...int) {
	s.checkIndices("Wait", indices)
	for _, i := range indices {
		s.workers[i].waitForYield()
		status := s.contexts[i].getStatus()
		s.emit(Event{Index: i, Kind: yieldKind(status), Status: status})
	}
}

// yieldKind labels the event a worker's status produces once it has left
// Running: a genuine Yield, a block on an external lock (Lock and
// LockShared are indistinguishable from status alone, so both read as
// KindLock), or a clean return.
func yieldKind(status Status) Kind {
	switch status {
	case WaitingExternal:
		return KindLock
	case Finished:
		return KindFinish
	default:
		return KindYield
	}
}

// SwitchContextTo runs proceed-then-wait for each listed index in
// left-to-right order: this is serial dispatch, not parallel. After it
// returns, each listed worker's status is Waiting, WaitingExternal, or
// Finished (P2).
func (s *Scheduler) SwitchContextTo(indices ...int) {
	s.checkIndices("SwitchContextTo", indices)
	for _, i := range indices {
		s.Proceed(i)
		s.Wait(i)
	}
}

// SwitchContextAll is SwitchContextTo across every worker, index 0 through
// N-1 in order.
func (s *Scheduler) SwitchContextAll() {
	indices := make([]int, len(s.workers))
	for i := range indices {
		indices[i] = i
	}
	s.SwitchContextTo(indices...)
}

// GetStatus reads a worker's current status. The value is always published
// through the worker's mutex+condvar pair, so any value read here is
// eventually consistent with the worker's true state; callers that depend
// on a precise transition boundary use WaitUntilStatus/WaitUntilOneStatus
// instead.
func (s *Scheduler) GetStatus(index int) Status {
	s.checkIndices("GetStatus", []int{index})
	return s.contexts[index].getStatus()
}

// WaitUntilStatus busy-polls until every listed worker is exactly status.
func (s *Scheduler) WaitUntilStatus(status Status, indices ...int) {
	s.checkIndices("WaitUntilStatus", indices)
	for {
		all := true
		for _, i := range indices {
			if s.contexts[i].getStatus() != status {
				all = false
				break
			}
		}
		if all {
			return
		}
		time.Sleep(pollInterval)
	}
}

// WaitUntilOneStatus busy-polls until any listed worker is exactly status,
// and returns that worker's index.
func (s *Scheduler) WaitUntilOneStatus(status Status, indices ...int) int {
	s.checkIndices("WaitUntilOneStatus", indices)
	for {
		for _, i := range indices {
			if s.contexts[i].getStatus() == status {
				return i
			}
		}
		time.Sleep(pollInterval)
	}
}

// WaitUntilLocked busy-polls try_lock/unlock on l until it is observably
// held by someone else. Used to confirm a specific worker has actually
// acquired a contested external lock before the driver proceeds to release
// the next contender onto it. Because this uses TryLock, it may race with a
// worker between acquisitions; the result is "eventually consistent", not a
// hard bound.
func (s *Scheduler) WaitUntilLocked(l TryLockable) {
	for {
		if !l.TryLock() {
			return
		}
		l.Unlock()
		time.Sleep(pollInterval)
	}
}

// JoinOn joins the listed workers' goroutines.
func (s *Scheduler) JoinOn(indices ...int) {
	s.checkIndices("JoinOn", indices)
	for _, i := range indices {
		s.workers[i].join()
	}
}

// JoinAll joins every worker's goroutine.
func (s *Scheduler) JoinAll() {
	for _, w := range s.workers {
		w.join()
	}
}

// Panics returns the recovered panic value for each worker whose body
// panicked, keyed by index. A worker that finished cleanly is absent.
func (s *Scheduler) Panics() map[int]any {
	out := make(map[int]any)
	for i, w := range s.workers {
		if w.panic != nil {
			out[i] = w.panic
		}
	}
	return out
}

// notFinishedIndices snapshots which workers have not yet reached Finished,
// for drivers (RandomDriver) that need to pick among still-running workers.
func (s *Scheduler) notFinishedIndices() []int {
	var out []int
	for i, c := range s.contexts {
		if c.getStatus() != Finished {
			out = append(out, i)
		}
	}
	return out
}

// pick is a small seeded-RNG helper shared by RandomDriver.
func pick(rng *rand.Rand, candidates []int) int {
	return candidates[rng.Intn(len(candidates))]
}
