package sched

import "sync"

// WorkerContext is the per-worker rendezvous state: a status word plus the
// mutex+condvar pair that publishes every transition of it. A worker body
// receives its own WorkerContext and calls Yield/Lock/LockShared on it; it
// must never touch another worker's context, and must not retain the
// pointer past its own return.
type WorkerContext struct {
	mu     sync.Mutex
	cond   *sync.Cond
	status Status // GUARDED_BY(mu)

	index int
	debug func(format string, args ...any)
}

func newWorkerContext(index int) *WorkerContext {
	c := &WorkerContext{status: NotStarted, index: index}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Index is this worker's position in the owning Scheduler.
func (c *WorkerContext) Index() int { return c.index }

// Yield transitions Running -> Waiting, wakes the driver, then blocks until
// the driver ticks this worker Running again. Equivalent to the composition
// of releasing control to the scheduler and waiting to be resumed.
func (c *WorkerContext) Yield() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Waiting
	c.cond.Broadcast()
	for c.status == Waiting {
		c.cond.Wait()
	}
}

// Lock wraps l.Lock with a WaitingExternal status envelope: the transition
// to WaitingExternal happens before the (possibly blocking) acquisition so
// the driver's wait_for_yield is released even though no true yield is
// coming. Unlocking is not wrapped; the worker is Running during its
// critical section, so callers call l.Unlock() directly.
func (c *WorkerContext) Lock(l Lockable) {
	c.mu.Lock()
	c.status = WaitingExternal
	c.cond.Broadcast()
	c.mu.Unlock()

	l.Lock()

	c.mu.Lock()
	c.status = Running
	c.mu.Unlock()
}

// LockShared is Lock's shared-acquisition counterpart.
func (c *WorkerContext) LockShared(l RLockable) {
	c.mu.Lock()
	c.status = WaitingExternal
	c.cond.Broadcast()
	c.mu.Unlock()

	l.RLock()

	c.mu.Lock()
	c.status = Running
	c.mu.Unlock()
}

// awaitStart blocks until the driver's first tick moves status out of
// NotStarted. Called only by the worker goroutine itself, before its body
// runs.
func (c *WorkerContext) awaitStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.status == NotStarted {
		c.cond.Wait()
	}
}

// finish transitions to Finished and wakes anyone waiting on this context.
// Called exactly once, after the body returns or panics.
func (c *WorkerContext) finish() {
	c.mu.Lock()
	c.status = Finished
	c.mu.Unlock()
	c.cond.Broadcast()
}

func (c *WorkerContext) getStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *WorkerContext) setDebugLog(f func(format string, args ...any)) {
	c.mu.Lock()
	c.debug = f
	c.mu.Unlock()
}
